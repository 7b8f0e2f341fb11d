// Package prompt assembles context prompts about a document type for AI
// agents. Pure formatting: no I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/folio-md/folio/internal/document"
	"github.com/folio-md/folio/internal/project"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/validate"
)

// Build renders an agent-facing description of a document type: its schema
// contract, the current document set, and the latest validation outcome.
func Build(t *project.DocType, docs []document.Document, rep *validate.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Document type: %s\n\n", t.Name)
	fmt.Fprintf(&b, "Documents live in `%s/`. The index file `%s` is machine-managed between the FOLIO:INDEX markers; never edit that region by hand.\n\n", t.Dir(), t.IndexFile())

	b.WriteString("## Front matter contract\n\n")
	b.WriteString("Every document starts with a `---` fenced YAML header. The schema is closed: keys not listed below are rejected.\n\n")
	for _, f := range t.Validator.Fields() {
		b.WriteString(describeField(f))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Current documents (%d)\n\n", len(docs))
	if len(docs) == 0 {
		b.WriteString("None yet.\n")
	}
	for _, d := range docs {
		title := d.File
		if v, ok := d.Meta["title"]; ok && v != nil {
			title = fmt.Sprintf("%v", v)
		}
		line := fmt.Sprintf("- %s (%s)", title, d.File)
		if v, ok := d.Meta["status"]; ok && v != nil {
			line += fmt.Sprintf(", status: %v", v)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if rep != nil {
		fmt.Fprintf(&b, "## Validation\n\n%d total, %d valid, %d invalid.\n", rep.Total, rep.Valid, rep.Invalid)
		for _, dr := range rep.Documents {
			if dr.Valid {
				continue
			}
			fmt.Fprintf(&b, "- %s:\n", dr.File)
			for _, e := range dr.Errors {
				fmt.Fprintf(&b, "  - %s\n", e.String())
			}
		}
	}

	return b.String()
}

func describeField(f schema.Field) string {
	var attrs []string
	kind := string(f.Type)
	if f.Array {
		kind = "list of " + kind
	}
	attrs = append(attrs, kind)
	if f.Required {
		attrs = append(attrs, "required")
	}
	if f.Unique {
		attrs = append(attrs, "unique across documents")
	}
	if len(f.Enum) > 0 {
		vals := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			vals[i] = fmt.Sprintf("%v", v)
		}
		attrs = append(attrs, "one of: "+strings.Join(vals, ", "))
	}
	if f.Pattern != "" {
		attrs = append(attrs, "pattern: "+f.Pattern)
	}
	if f.MinLength != nil {
		attrs = append(attrs, fmt.Sprintf("min length %d", *f.MinLength))
	}
	if f.Minimum != nil {
		attrs = append(attrs, fmt.Sprintf("minimum %v", *f.Minimum))
	}
	if f.Default != nil {
		if f.Default.IsGenerator() {
			attrs = append(attrs, "default: generated")
		} else {
			attrs = append(attrs, fmt.Sprintf("default: %v", f.Default.Literal()))
		}
	}
	return fmt.Sprintf("- `%s`: %s\n", f.Name, strings.Join(attrs, ", "))
}
