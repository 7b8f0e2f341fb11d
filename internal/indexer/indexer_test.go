package indexer

import (
	"strings"
	"testing"

	"github.com/folio-md/folio/internal/document"
)

func tableOpts() Options {
	return Options{Columns: []string{"id", "title", "status"}, Format: FormatTable}
}

func doc(file string, meta map[string]any) document.Document {
	return document.Document{File: file, Meta: meta}
}

func TestRender_Table(t *testing.T) {
	region := Render([]document.Document{
		doc("0001-first.md", map[string]any{"id": 1, "title": "First", "status": "accepted"}),
		doc("0002-second.md", map[string]any{"id": 2, "title": "Second"}),
	}, tableOpts())

	if !strings.HasPrefix(region, StartMarker+"\n") || !strings.HasSuffix(region, EndMarker) {
		t.Fatalf("region not marker-wrapped: %q", region)
	}
	if !strings.Contains(region, "| id | title | status |") {
		t.Errorf("missing header: %q", region)
	}
	if !strings.Contains(region, "| 1 | [First](0001-first.md) | accepted |") {
		t.Errorf("missing linked row: %q", region)
	}
	// Missing status renders the placeholder.
	if !strings.Contains(region, "| 2 | [Second](0002-second.md) | N/A |") {
		t.Errorf("missing N/A row: %q", region)
	}
}

func TestRender_LinkColumnFallsBackToFirst(t *testing.T) {
	region := Render([]document.Document{
		doc("a.md", map[string]any{"id": 1, "status": "open"}),
	}, Options{Columns: []string{"id", "status"}, Format: FormatTable})

	if !strings.Contains(region, "| [1](a.md) | open |") {
		t.Errorf("first column should carry the link: %q", region)
	}
}

func TestRender_List(t *testing.T) {
	region := Render([]document.Document{
		doc("one.md", map[string]any{"title": "One", "status": "active"}),
		doc("two.md", map[string]any{"title": "Two"}),
	}, Options{Format: FormatList})

	if !strings.Contains(region, "- [One](one.md) (Status: active)") {
		t.Errorf("list row missing: %q", region)
	}
	if !strings.Contains(region, "- [Two](two.md)\n") {
		t.Errorf("statusless row should have no parenthetical: %q", region)
	}
}

func TestRender_EmptySetPlaceholder(t *testing.T) {
	region := Render(nil, tableOpts())
	if !strings.Contains(region, "No documents found.") {
		t.Errorf("missing placeholder: %q", region)
	}
	if strings.Contains(region, "| id |") {
		t.Errorf("empty set must not render a table header: %q", region)
	}
}

func TestSortByID_Numeric(t *testing.T) {
	region := Render([]document.Document{
		doc("b.md", map[string]any{"id": 10, "title": "Ten"}),
		doc("a.md", map[string]any{"id": 2, "title": "Two"}),
	}, tableOpts())

	if strings.Index(region, "Two") > strings.Index(region, "Ten") {
		t.Errorf("numeric sort failed (10 before 2): %q", region)
	}
}

func TestSortByID_FallbackOnPartialIDs(t *testing.T) {
	// One document without an id keeps the whole set in listing order;
	// partial sorting never occurs.
	region := Render([]document.Document{
		doc("z.md", map[string]any{"id": 9, "title": "Nine"}),
		doc("a.md", map[string]any{"title": "NoID"}),
		doc("m.md", map[string]any{"id": 1, "title": "One"}),
	}, tableOpts())

	nine := strings.Index(region, "Nine")
	noid := strings.Index(region, "NoID")
	one := strings.Index(region, "One")
	if !(nine < noid && noid < one) {
		t.Errorf("expected listing order Nine, NoID, One: %q", region)
	}
}

func TestSortByID_LexicographicWhenNonNumeric(t *testing.T) {
	region := Render([]document.Document{
		doc("b.md", map[string]any{"id": "b", "title": "B"}),
		doc("a.md", map[string]any{"id": "a", "title": "A"}),
	}, tableOpts())

	if strings.Index(region, "[A]") > strings.Index(region, "[B]") {
		t.Errorf("lexicographic sort failed: %q", region)
	}
}

func TestRender_ArrayAndNumberFormatting(t *testing.T) {
	region := Render([]document.Document{
		doc("a.md", map[string]any{"id": 1, "title": "A", "status": "ok", "tags": []any{"go", "infra"}}),
	}, Options{Columns: []string{"id", "tags"}, Format: FormatTable})

	if !strings.Contains(region, "| go, infra |") {
		t.Errorf("array not joined: %q", region)
	}
	if !strings.Contains(region, "[1](a.md)") {
		t.Errorf("integral number should render without decimals: %q", region)
	}
}
