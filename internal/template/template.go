// Package template renders document bodies from the per-type Markdown
// templates.
package template

import (
	"fmt"
	"strings"
	"text/template"
)

// Data is the variable set available to a document template.
type Data struct {
	Title  string
	Type   string
	Fields map[string]any
}

// fallback is used when a type has no template configured or the template
// file is missing.
const fallback = "# {{.Title}}\n"

// Render substitutes data into the template text. An empty text falls back
// to a minimal document body.
func Render(text string, data Data) (string, error) {
	if strings.TrimSpace(text) == "" {
		text = fallback
	}
	tmpl, err := template.New("document").Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("template: parse: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}
	return b.String(), nil
}
