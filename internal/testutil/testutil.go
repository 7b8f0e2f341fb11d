// Package testutil provides shared test helpers for setting up workspaces
// and projects.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/folio-md/folio/internal/indexer"
	"github.com/folio-md/folio/internal/project"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/storage"
)

// TestWorkspace creates a temporary workspace directory with a storage
// provider rooted at it.
func TestWorkspace(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// MustSchema parses a YAML frontmatter schema definition, panicking on
// malformed test fixtures.
func MustSchema(src string) schema.Schema {
	var s schema.Schema
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		panic(fmt.Sprintf("testutil: bad schema fixture: %v", err))
	}
	return s
}

// ADRSchema is a representative schema: numeric unique id, required title,
// enumerated status with a default, optional date and tags.
func ADRSchema() schema.Schema {
	return MustSchema(`
id: {type: number, required: true, unique: true, minimum: 1}
title: {type: string, required: true, min_length: 3}
status: {type: string, enum: [proposed, accepted, deprecated], default: proposed}
date: {type: date}
tags: {type: string, array: true}
`)
}

// ADRConfig returns a minimal single-type config using ADRSchema.
func ADRConfig() *project.Config {
	cfg := project.NewDefaultConfig()
	cfg.Types = map[string]project.TypeConfig{
		"adr": {
			Path:        "adr",
			Frontmatter: ADRSchema(),
		},
	}
	return cfg
}

// TestProject builds a project over a temp workspace from cfg.
func TestProject(t *testing.T, cfg *project.Config) *project.Project {
	t.Helper()
	_, store := TestWorkspace(t)
	p, err := project.New(cfg, store)
	if err != nil {
		t.Fatalf("project.New: %v", err)
	}
	return p
}

// WriteDoc writes a document file under the workspace root.
func WriteDoc(t *testing.T, store *storage.FS, rel, content string) {
	t.Helper()
	if err := store.Write(rel, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// ReadFile reads a file under dir without going through storage.
func ReadFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// DefaultIndexing returns the default indexing options used across tests.
func DefaultIndexing() indexer.Options {
	return indexer.Options{
		Columns: []string{"id", "title", "status"},
		Format:  indexer.FormatTable,
	}
}
