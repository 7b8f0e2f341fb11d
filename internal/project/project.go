package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/folio-md/folio/internal/apperr"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/storage"
	pkgconfig "github.com/folio-md/folio/pkg/config"
)

// Project is a loaded configuration plus the workspace storage and the
// compiled validator for every document type. Schemas compile once at open;
// a malformed schema fails the whole invocation here, before any document is
// touched.
type Project struct {
	Config *Config
	Store  *storage.FS

	validators map[string]*schema.Validator
}

// DocType is one resolved document type.
type DocType struct {
	Name      string
	Config    TypeConfig
	Validator *schema.Validator
	Indexing  IndexingConfig
}

// Dir returns the type's directory relative to the workspace root.
func (t *DocType) Dir() string {
	return t.Config.Path
}

// IndexFile returns the base name of the type's index file.
func (t *DocType) IndexFile() string {
	return t.Indexing.File
}

// IndexPath returns the workspace-relative path of the type's index file.
func (t *DocType) IndexPath() string {
	return path.Join(t.Config.Path, t.Indexing.File)
}

// Open loads the config file at configPath and prepares the project rooted
// next to it. The document root directory is created when missing.
func Open(configPath string) (*Project, error) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, err
	}

	root := cfg.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(filepath.Dir(configPath), root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create document root: %w", err)
	}

	store, err := storage.NewFS(root)
	if err != nil {
		return nil, err
	}

	return New(cfg, store)
}

// New builds a Project from an already-validated config and a storage
// provider, compiling every type's schema.
func New(cfg *Config, store *storage.FS) (*Project, error) {
	p := &Project{
		Config:     cfg,
		Store:      store,
		validators: make(map[string]*schema.Validator, len(cfg.Types)),
	}
	for name, t := range cfg.Types {
		v, err := schema.Compile(t.Frontmatter)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		p.validators[name] = v
	}
	return p, nil
}

// Type resolves a document type by name.
func (p *Project) Type(name string) (*DocType, error) {
	t, ok := p.Config.Types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownType, name)
	}
	return &DocType{
		Name:      name,
		Config:    t,
		Validator: p.validators[name],
		Indexing:  p.Config.Indexing.merged(t.Indexing),
	}, nil
}

// TypeNames returns all configured type names, sorted for deterministic
// iteration.
func (p *Project) TypeNames() []string {
	names := make([]string, 0, len(p.Config.Types))
	for name := range p.Config.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Types resolves every configured type, sorted by name.
func (p *Project) Types() ([]*DocType, error) {
	var out []*DocType
	for _, name := range p.TypeNames() {
		t, err := p.Type(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
