// Package validate runs a compiled schema validator across every document of
// a type and enforces cross-document uniqueness.
package validate

import (
	"fmt"

	"github.com/folio-md/folio/internal/document"
	"github.com/folio-md/folio/internal/schema"
)

// DocumentResult is the validation outcome for one file.
type DocumentResult struct {
	File   string         `json:"file"`
	Valid  bool           `json:"valid"`
	Errors []schema.Error `json:"errors"`
}

// Duplicate records one unique-constraint violation. It is attributed to the
// later file in processing order, referencing the first holder of the value.
type Duplicate struct {
	Field       string `json:"field"`
	Value       string `json:"value"`
	FirstSeenIn string `json:"first_seen_in"`
	DuplicateIn string `json:"duplicate_in"`
}

// Report aggregates a validation run over one document type.
type Report struct {
	Documents  []DocumentResult `json:"documents"`
	Duplicates []Duplicate      `json:"duplicates"`
	Total      int              `json:"total"`
	Valid      int              `json:"valid"`
	Invalid    int              `json:"invalid"`
}

// OK reports whether every document in the run is valid.
func (r *Report) OK() bool {
	return r.Invalid == 0
}

// Result returns the per-document outcome for file, if present.
func (r *Report) Result(file string) (DocumentResult, bool) {
	for _, d := range r.Documents {
		if d.File == file {
			return d, true
		}
	}
	return DocumentResult{}, false
}

// Run validates docs in order against v. It never returns an error: every
// per-document problem, including a malformed front matter block, becomes a
// structured finding and the run continues.
func Run(docs []document.Document, v *schema.Validator) *Report {
	rep := &Report{Total: len(docs)}

	// Per unique field: coerced-value key -> first file that produced it.
	firstSeen := make(map[string]map[string]string)
	for _, name := range v.UniqueFields() {
		firstSeen[name] = make(map[string]string)
	}

	for _, doc := range docs {
		dr := DocumentResult{File: doc.File}

		if doc.Err != nil {
			dr.Errors = []schema.Error{{
				Field:   "",
				Code:    schema.CodeParseFailure,
				Message: doc.Err.Error(),
			}}
			rep.Documents = append(rep.Documents, finish(rep, dr))
			continue
		}

		res := v.Apply(doc.Meta)
		dr.Errors = res.Errors

		// Uniqueness only considers fields that passed validation for this
		// document; an invalid or absent value is never compared.
		for _, name := range v.UniqueFields() {
			if !res.FieldOK[name] {
				continue
			}
			val, present := res.Values[name]
			if !present {
				continue
			}
			key := schema.Key(val)
			if first, dup := firstSeen[name][key]; dup {
				rep.Duplicates = append(rep.Duplicates, Duplicate{
					Field:       name,
					Value:       display(val),
					FirstSeenIn: first,
					DuplicateIn: doc.File,
				})
				dr.Errors = append(dr.Errors, schema.Error{
					Field:   name,
					Code:    schema.CodeDuplicateUnique,
					Message: fmt.Sprintf("value %s duplicates %s", display(val), first),
				})
			} else {
				firstSeen[name][key] = doc.File
			}
		}

		rep.Documents = append(rep.Documents, finish(rep, dr))
	}

	return rep
}

func finish(rep *Report, dr DocumentResult) DocumentResult {
	dr.Valid = len(dr.Errors) == 0
	if dr.Valid {
		rep.Valid++
	} else {
		rep.Invalid++
	}
	return dr
}

func display(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}
