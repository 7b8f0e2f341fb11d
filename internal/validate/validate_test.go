package validate

import (
	"errors"
	"testing"

	"github.com/folio-md/folio/internal/document"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/testutil"
)

func adrValidator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.Compile(testutil.MustSchema(`
id: {type: number, required: true, unique: true}
status: {type: string, enum: [proposed, accepted]}
`))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return v
}

func doc(file string, meta map[string]any) document.Document {
	return document.Document{File: file, Meta: meta}
}

func TestRun_DuplicateUniqueAttribution(t *testing.T) {
	// Two documents share id 1; the first stays valid, the
	// second gets exactly one DuplicateUnique on id and nothing on status.
	v := adrValidator(t)
	rep := Run([]document.Document{
		doc("a.md", map[string]any{"id": 1, "status": "proposed"}),
		doc("b.md", map[string]any{"id": 1, "status": "accepted"}),
	}, v)

	if rep.Total != 2 || rep.Valid != 1 || rep.Invalid != 1 {
		t.Fatalf("aggregate = %d/%d/%d", rep.Total, rep.Valid, rep.Invalid)
	}
	first, _ := rep.Result("a.md")
	if !first.Valid {
		t.Errorf("a.md should be valid: %v", first.Errors)
	}
	second, _ := rep.Result("b.md")
	if second.Valid || len(second.Errors) != 1 {
		t.Fatalf("b.md errors = %v", second.Errors)
	}
	if second.Errors[0].Code != schema.CodeDuplicateUnique || second.Errors[0].Field != "id" {
		t.Errorf("error = %+v", second.Errors[0])
	}
	if len(rep.Duplicates) != 1 {
		t.Fatalf("duplicates = %v", rep.Duplicates)
	}
	d := rep.Duplicates[0]
	if d.FirstSeenIn != "a.md" || d.DuplicateIn != "b.md" || d.Value != "1" {
		t.Errorf("duplicate = %+v", d)
	}
}

func TestRun_DuplicateAttributedToLaterFile(t *testing.T) {
	// A, B, C where A and C collide: the violation names C, referencing A.
	v := adrValidator(t)
	rep := Run([]document.Document{
		doc("a.md", map[string]any{"id": 7}),
		doc("b.md", map[string]any{"id": 8}),
		doc("c.md", map[string]any{"id": 7}),
	}, v)

	if len(rep.Duplicates) != 1 {
		t.Fatalf("duplicates = %v", rep.Duplicates)
	}
	d := rep.Duplicates[0]
	if d.FirstSeenIn != "a.md" || d.DuplicateIn != "c.md" {
		t.Errorf("attribution = %+v, want c.md referencing a.md", d)
	}
}

func TestRun_InvalidValueNeverComparedForUniqueness(t *testing.T) {
	v := adrValidator(t)
	rep := Run([]document.Document{
		doc("a.md", map[string]any{"id": "oops"}),
		doc("b.md", map[string]any{"id": "oops"}),
	}, v)

	if len(rep.Duplicates) != 0 {
		t.Errorf("type-mismatched values must not collide: %v", rep.Duplicates)
	}
	if rep.Invalid != 2 {
		t.Errorf("invalid = %d, want 2", rep.Invalid)
	}
}

func TestRun_OmittedUniqueFieldsCoexist(t *testing.T) {
	// Documented behavior: two documents both omitting a unique field are
	// not a violation.
	v, err := schema.Compile(testutil.MustSchema(`ref: {type: string, unique: true}`))
	if err != nil {
		t.Fatal(err)
	}
	rep := Run([]document.Document{
		doc("a.md", map[string]any{}),
		doc("b.md", map[string]any{}),
	}, v)
	if !rep.OK() || len(rep.Duplicates) != 0 {
		t.Errorf("omitted unique values must coexist: %+v", rep)
	}
}

func TestRun_ParseFailureIsIsolated(t *testing.T) {
	v := adrValidator(t)
	rep := Run([]document.Document{
		{File: "bad.md", Err: errors.New("front matter fence is not closed")},
		doc("good.md", map[string]any{"id": 1}),
	}, v)

	if rep.Total != 2 || rep.Valid != 1 || rep.Invalid != 1 {
		t.Fatalf("aggregate = %d/%d/%d", rep.Total, rep.Valid, rep.Invalid)
	}
	bad, _ := rep.Result("bad.md")
	if len(bad.Errors) != 1 || bad.Errors[0].Code != schema.CodeParseFailure {
		t.Errorf("bad.md errors = %v", bad.Errors)
	}
	good, _ := rep.Result("good.md")
	if !good.Valid {
		t.Errorf("good.md should still be validated: %v", good.Errors)
	}
}

func TestRun_DefaultedUniqueValuesCollide(t *testing.T) {
	// Uniqueness compares materialized values, so two documents relying on
	// the same literal default collide.
	v, err := schema.Compile(testutil.MustSchema(`slot: {type: string, unique: true, default: main}`))
	if err != nil {
		t.Fatal(err)
	}
	rep := Run([]document.Document{
		doc("a.md", map[string]any{}),
		doc("b.md", map[string]any{}),
	}, v)
	if len(rep.Duplicates) != 1 {
		t.Fatalf("duplicates = %v", rep.Duplicates)
	}
}

func TestRun_EmptySet(t *testing.T) {
	rep := Run(nil, adrValidator(t))
	if !rep.OK() || rep.Total != 0 {
		t.Errorf("empty run should be trivially OK: %+v", rep)
	}
}
