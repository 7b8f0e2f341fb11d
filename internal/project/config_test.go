package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/folio-md/folio/internal/apperr"
	"github.com/folio-md/folio/internal/indexer"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/storage"
)

func newTestStore(t *testing.T, dir string) *storage.FS {
	t.Helper()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with one type", func(c *Config) {}, false},
		{"missing root", func(c *Config) { c.Root = "" }, true},
		{"no types", func(c *Config) { c.Types = nil }, true},
		{"port out of range", func(c *Config) { c.HTTP.Port = 70000 }, true},
		{"bad auth mode", func(c *Config) { c.Auth.Mode = "basic" }, true},
		{"token mode without token", func(c *Config) { c.Auth.Mode = AuthModeToken }, true},
		{"token mode with token", func(c *Config) {
			c.Auth.Mode = AuthModeToken
			c.Auth.Token = "s3cret"
		}, false},
		{"bad index format", func(c *Config) { c.Indexing.Format = "csv" }, true},
		{"type without path", func(c *Config) {
			c.Types["adr"] = TypeConfig{}
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Types = map[string]TypeConfig{
				"adr": {Path: "adr"},
			}
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAuthModeDefaultsToDisabled(t *testing.T) {
	cfg := &AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("Mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
	if cfg.AuthEnabled() {
		t.Error("AuthEnabled should be false")
	}
}

func TestIndexingMerged(t *testing.T) {
	base := IndexingConfig{File: "README.md", Columns: []string{"id", "title"}, Format: indexer.FormatTable}

	if got := base.merged(nil); got.File != "README.md" || got.Format != indexer.FormatTable {
		t.Errorf("nil override changed base: %+v", got)
	}

	got := base.merged(&IndexingConfig{Format: indexer.FormatList})
	if got.Format != indexer.FormatList {
		t.Errorf("Format = %q, want list", got.Format)
	}
	if got.File != "README.md" || len(got.Columns) != 2 {
		t.Errorf("unrelated fields changed: %+v", got)
	}

	got = base.merged(&IndexingConfig{File: "INDEX.md", Columns: []string{"id"}})
	if got.File != "INDEX.md" || len(got.Columns) != 1 || got.Format != indexer.FormatTable {
		t.Errorf("merged = %+v", got)
	}
}

func mustParseSchema(t *testing.T, src string) schema.Schema {
	t.Helper()
	var s schema.Schema
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		t.Fatalf("schema fixture: %v", err)
	}
	return s
}

func TestNewCompilesSchemasUpfront(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	cfg := NewDefaultConfig()
	cfg.Types = map[string]TypeConfig{
		"adr": {
			Path:        "adr",
			Frontmatter: mustParseSchema(t, "id: {type: number, unique: true}\ntitle: {type: string}"),
		},
	}
	p, err := New(cfg, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dt, err := p.Type("adr")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if dt.Validator == nil {
		t.Fatal("validator not compiled")
	}
	if dt.Dir() != "adr" {
		t.Errorf("Dir = %q", dt.Dir())
	}
	if dt.IndexPath() != "adr/README.md" {
		t.Errorf("IndexPath = %q", dt.IndexPath())
	}
}

func TestNewRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)

	cfg := NewDefaultConfig()
	cfg.Types = map[string]TypeConfig{
		"adr": {
			Path:        "adr",
			Frontmatter: mustParseSchema(t, "id: {type: integer}"),
		},
	}
	if _, err := New(cfg, store); err == nil {
		t.Fatal("expected schema compile error")
	}
}

func TestTypeUnknown(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)
	cfg := NewDefaultConfig()
	cfg.Types = map[string]TypeConfig{"adr": {Path: "adr"}}
	p, err := New(cfg, store)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Type("rfc"); !errors.Is(err, apperr.ErrUnknownType) {
		t.Errorf("err = %v, want ErrUnknownType", err)
	}
}

func TestTypeIndexingOverride(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)
	cfg := NewDefaultConfig()
	cfg.Types = map[string]TypeConfig{
		"adr":    {Path: "adr"},
		"ticket": {Path: "tickets", Indexing: &IndexingConfig{File: "BOARD.md", Format: indexer.FormatList}},
	}
	p, err := New(cfg, store)
	if err != nil {
		t.Fatal(err)
	}

	adr, _ := p.Type("adr")
	if adr.IndexFile() != "README.md" || adr.Indexing.Format != indexer.FormatTable {
		t.Errorf("adr indexing = %+v", adr.Indexing)
	}

	ticket, _ := p.Type("ticket")
	if ticket.IndexPath() != "tickets/BOARD.md" {
		t.Errorf("IndexPath = %q", ticket.IndexPath())
	}
	if ticket.Indexing.Format != indexer.FormatList {
		t.Errorf("Format = %q", ticket.Indexing.Format)
	}
	if len(ticket.Indexing.Columns) != 3 {
		t.Errorf("Columns should fall back to global: %+v", ticket.Indexing.Columns)
	}
}

func TestTypeNamesSorted(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)
	cfg := NewDefaultConfig()
	cfg.Types = map[string]TypeConfig{
		"ticket": {Path: "tickets"},
		"adr":    {Path: "adr"},
		"epic":   {Path: "epics"},
	}
	p, err := New(cfg, store)
	if err != nil {
		t.Fatal(err)
	}
	names := p.TypeNames()
	want := []string{"adr", "epic", "ticket"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("TypeNames = %v, want %v", names, want)
		}
	}
}

func TestOpenResolvesRootRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	cfgYAML := `
root: workspace
types:
  adr:
    path: adr
    frontmatter:
      id: {type: number}
`
	cfgPath := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Open(cfgPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want := filepath.Join(dir, "workspace")
	if p.Store.Root() != want {
		t.Errorf("root = %q, want %q", p.Store.Root(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("document root not created: %v", err)
	}
}
