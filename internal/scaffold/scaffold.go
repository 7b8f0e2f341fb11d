// Package scaffold creates a fresh folio project: the config file, the
// per-type directories, and the starter document templates.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/folio-md/folio/internal/apperr"
	"github.com/folio-md/folio/internal/project"
)

// configTemplate is the starter folio.yaml. Schemas here double as living
// documentation of the field definition syntax.
const configTemplate = `root: docs

http:
  port: 8080

auth:
  mode: disabled

indexing:
  file: README.md
  columns: [id, title, status]
  format: table

types:
  adr:
    path: adr
    template: templates/adr.md
    frontmatter:
      id: {type: number, required: true, unique: true, minimum: 1}
      title: {type: string, required: true, min_length: 3}
      status: {type: string, enum: [proposed, accepted, rejected, deprecated, superseded], default: proposed}
      date: {type: date, default: $today}
      tags: {type: string, array: true}
  ticket:
    path: tickets
    template: templates/ticket.md
    frontmatter:
      id: {type: number, required: true, unique: true, minimum: 1}
      title: {type: string, required: true, min_length: 3}
      status: {type: string, enum: [open, in-progress, done, deprecated], default: open}
      epic: {type: string}
      estimate: {type: number, minimum: 0}
  epic:
    path: epics
    template: templates/epic.md
    indexing:
      format: list
    frontmatter:
      title: {type: string, required: true, unique: true, min_length: 3}
      status: {type: string, enum: [draft, active, done, deprecated], default: draft}
      owner: {type: string}
  sprint:
    path: sprints
    template: templates/sprint.md
    frontmatter:
      id: {type: number, required: true, unique: true, minimum: 1}
      title: {type: string, required: true}
      status: {type: string, enum: [planned, active, closed, deprecated], default: planned}
      start: {type: date}
      end: {type: date}
`

var documentTemplates = map[string]string{
	"adr.md": `# {{.Title}}

## Context

What is the issue that we're seeing that is motivating this decision?

## Decision

What is the change that we're proposing and/or doing?

## Consequences

What becomes easier or more difficult to do because of this change?
`,
	"ticket.md": `# {{.Title}}

## Description

## Acceptance Criteria

- [ ]
`,
	"epic.md": `# {{.Title}}

## Goal

## Tickets
`,
	"sprint.md": `# {{.Title}}

## Goal

## Scope

## Retro notes
`,
}

// Init writes a starter project into dir. It refuses to overwrite an
// existing config file.
func Init(dir string) error {
	configPath := filepath.Join(dir, project.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, configPath)
	}

	root := filepath.Join(dir, "docs")
	dirs := []string{
		filepath.Join(root, "adr"),
		filepath.Join(root, "tickets"),
		filepath.Join(root, "epics"),
		filepath.Join(root, "sprints"),
		filepath.Join(root, "templates"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("scaffold: mkdir %s: %w", d, err)
		}
	}

	for name, body := range documentTemplates {
		p := filepath.Join(root, "templates", name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			return fmt.Errorf("scaffold: write %s: %w", p, err)
		}
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("scaffold: write %s: %w", configPath, err)
	}
	return nil
}
