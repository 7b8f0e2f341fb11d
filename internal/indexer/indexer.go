// Package indexer maintains the machine-owned summary region inside a
// per-type index file. Content outside the region markers belongs to the
// human author and survives regeneration byte for byte.
package indexer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/folio-md/folio/internal/document"
)

// Region markers. Both must appear on their own lines and are matched as
// exact substrings.
const (
	StartMarker = "<!-- FOLIO:INDEX:START -->"
	EndMarker   = "<!-- FOLIO:INDEX:END -->"
)

// Output formats.
const (
	FormatTable = "table"
	FormatList  = "list"
)

// emptyPlaceholder is rendered instead of an empty table when a type has no
// documents yet.
const emptyPlaceholder = "No documents found."

// Options controls how the index region is rendered.
type Options struct {
	Columns []string
	Format  string
}

// Render produces the full index region, markers included.
func Render(docs []document.Document, opts Options) string {
	var b strings.Builder
	b.WriteString(StartMarker)
	b.WriteString("\n")

	sorted := sortByID(docs)
	switch {
	case len(sorted) == 0:
		b.WriteString(emptyPlaceholder)
		b.WriteString("\n")
	case opts.Format == FormatList:
		renderList(&b, sorted)
	default:
		renderTable(&b, sorted, opts.Columns)
	}

	b.WriteString(EndMarker)
	return b.String()
}

// sortByID returns docs sorted ascending by the "id" metadata field, but
// only when every document carries a non-nil id. A partial id set keeps
// directory-listing order: partial sorting never occurs.
func sortByID(docs []document.Document) []document.Document {
	ids := make([]any, len(docs))
	for i, d := range docs {
		v, ok := d.Meta["id"]
		if !ok || v == nil {
			return docs
		}
		ids[i] = v
	}

	numeric := make([]float64, len(ids))
	allNumeric := true
	for i, v := range ids {
		n, ok := asNumber(v)
		if !ok {
			allNumeric = false
			break
		}
		numeric[i] = n
	}

	out := make([]document.Document, len(docs))
	copy(out, docs)
	if allNumeric {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := asNumber(out[i].Meta["id"])
			b, _ := asNumber(out[j].Meta["id"])
			return a < b
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return fmt.Sprintf("%v", out[i].Meta["id"]) < fmt.Sprintf("%v", out[j].Meta["id"])
		})
	}
	return out
}

func renderTable(b *strings.Builder, docs []document.Document, columns []string) {
	if len(columns) == 0 {
		columns = []string{"id", "title", "status"}
	}

	// The link column is the one literally named "title" when configured,
	// otherwise the first column.
	linkCol := columns[0]
	for _, c := range columns {
		if c == "title" {
			linkCol = c
			break
		}
	}

	b.WriteString("| ")
	b.WriteString(strings.Join(columns, " | "))
	b.WriteString(" |\n|")
	for range columns {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, d := range docs {
		b.WriteString("|")
		for _, col := range columns {
			cell := cellValue(d, col)
			if col == linkCol {
				cell = fmt.Sprintf("[%s](%s)", cell, d.File)
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
}

func renderList(b *strings.Builder, docs []document.Document) {
	for _, d := range docs {
		title := cellValue(d, "title")
		if title == "N/A" {
			title = d.File
		}
		b.WriteString(fmt.Sprintf("- [%s](%s)", title, d.File))
		if status, ok := d.Meta["status"]; ok && status != nil {
			b.WriteString(fmt.Sprintf(" (Status: %v)", status))
		}
		b.WriteString("\n")
	}
}

// cellValue formats one metadata value for display; missing values render as
// a literal placeholder.
func cellValue(d document.Document, col string) string {
	v, ok := d.Meta[col]
	if !ok || v == nil {
		return "N/A"
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case []any:
		parts := make([]string, len(x))
		for i, el := range x {
			parts[i] = formatValue(el)
		}
		return strings.Join(parts, ", ")
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
