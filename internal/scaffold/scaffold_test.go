package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/folio-md/folio/internal/apperr"
	"github.com/folio-md/folio/internal/project"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, rel := range []string{
		project.DefaultConfigFile,
		"docs/adr",
		"docs/tickets",
		"docs/epics",
		"docs/sprints",
		"docs/templates/adr.md",
		"docs/templates/ticket.md",
		"docs/templates/epic.md",
		"docs/templates/sprint.md",
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

// The starter config must load and compile cleanly, or folio init would
// produce a broken project.
func TestInitConfigIsUsable(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	p, err := project.Open(filepath.Join(dir, project.DefaultConfigFile))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	names := p.TypeNames()
	want := []string{"adr", "epic", "sprint", "ticket"}
	if len(names) != len(want) {
		t.Fatalf("types = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("types = %v, want %v", names, want)
		}
	}

	epic, err := p.Type("epic")
	if err != nil {
		t.Fatal(err)
	}
	if epic.Indexing.Format != "list" {
		t.Errorf("epic index format = %q, want list override", epic.Indexing.Format)
	}
	if epic.IndexFile() != "README.md" {
		t.Errorf("epic index file = %q, want global default", epic.IndexFile())
	}
}

func TestInitRefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}
	err := Init(dir)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}
