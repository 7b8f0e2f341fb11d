package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Validator is a schema compiled into executable per-field checks. Compile
// once per config load; Apply per document.
type Validator struct {
	fields []*compiledField
	byName map[string]*compiledField
}

type compiledField struct {
	def     Field
	pattern *regexp.Regexp
	enum    map[string]struct{} // keys of coerced enum members
}

// Result is the outcome of applying a validator to one document's metadata.
type Result struct {
	// Errors holds every finding, in field declaration order, with unknown
	// fields reported last.
	Errors []Error
	// Values maps field name to the coerced (and default-materialized)
	// value for fields that were present or defaulted.
	Values map[string]any
	// FieldOK reports, per declared field, whether the field produced no
	// errors. Only OK fields participate in uniqueness checks.
	FieldOK map[string]bool
}

// Valid reports whether the document produced no findings.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Compile validates the schema definition itself and builds a Validator.
// A non-nil error here is a configuration error: nothing can be validated
// against a malformed schema.
func Compile(s Schema) (*Validator, error) {
	v := &Validator{byName: make(map[string]*compiledField, len(s.Fields))}
	for _, f := range s.Fields {
		cf, err := compileField(f)
		if err != nil {
			return nil, err
		}
		if _, dup := v.byName[f.Name]; dup {
			return nil, fmt.Errorf("schema: field %q declared twice", f.Name)
		}
		v.fields = append(v.fields, cf)
		v.byName[f.Name] = cf
	}
	return v, nil
}

func compileField(f Field) (*compiledField, error) {
	switch f.Type {
	case TypeString, TypeNumber, TypeBoolean, TypeDate:
	default:
		return nil, fmt.Errorf("schema: field %q: unknown type %q", f.Name, f.Type)
	}

	cf := &compiledField{def: f}

	if f.Pattern != "" {
		if f.Type != TypeString {
			return nil, fmt.Errorf("schema: field %q: pattern requires type string, not %s", f.Name, f.Type)
		}
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: invalid pattern: %w", f.Name, err)
		}
		cf.pattern = re
	}
	if f.MinLength != nil && f.Type != TypeString {
		return nil, fmt.Errorf("schema: field %q: min_length requires type string, not %s", f.Name, f.Type)
	}
	if f.Minimum != nil && f.Type != TypeNumber {
		return nil, fmt.Errorf("schema: field %q: minimum requires type number, not %s", f.Name, f.Type)
	}

	if len(f.Enum) > 0 {
		cf.enum = make(map[string]struct{}, len(f.Enum))
		for _, lit := range f.Enum {
			coerced, ok := coerce(f.Type, lit)
			if !ok {
				return nil, fmt.Errorf("schema: field %q: enum value %v is not a %s", f.Name, lit, f.Type)
			}
			cf.enum[Key(coerced)] = struct{}{}
		}
	}

	// Literal defaults must satisfy the field's own constraints; generator
	// defaults are only checkable at validation time.
	if f.Default != nil && !f.Default.IsGenerator() {
		lit := f.Default.Literal()
		values := []any{lit}
		if f.Array {
			seq, ok := lit.([]any)
			if !ok {
				return nil, fmt.Errorf("schema: field %q: default for array field must be a sequence", f.Name)
			}
			values = seq
		}
		for _, val := range values {
			coerced, ok := coerce(f.Type, val)
			if !ok {
				return nil, fmt.Errorf("schema: field %q: default %v is not a %s", f.Name, val, f.Type)
			}
			if cf.enum != nil {
				if _, member := cf.enum[Key(coerced)]; !member {
					return nil, fmt.Errorf("schema: field %q: default %v is not an enum member", f.Name, val)
				}
			}
		}
	}

	return cf, nil
}

// Fields returns the declared field definitions in schema order.
func (v *Validator) Fields() []Field {
	out := make([]Field, len(v.fields))
	for i, cf := range v.fields {
		out[i] = cf.def
	}
	return out
}

// UniqueFields returns the names of fields declared unique, in schema order.
func (v *Validator) UniqueFields() []string {
	var out []string
	for _, cf := range v.fields {
		if cf.def.Unique {
			out = append(out, cf.def.Name)
		}
	}
	return out
}

// Apply validates one document's metadata. It never fails hard: every
// finding is collected into the result. Defaults are materialized before
// validation, so checks always run against concrete values.
func (v *Validator) Apply(meta map[string]any) Result {
	res := Result{
		Values:  make(map[string]any, len(v.fields)),
		FieldOK: make(map[string]bool, len(v.fields)),
	}

	for _, cf := range v.fields {
		f := cf.def
		raw, present := meta[f.Name]
		if present && raw == nil {
			// An empty "key:" line carries no value.
			present = false
		}

		if !present {
			switch {
			case f.Required:
				res.Errors = append(res.Errors, errorf(f.Name, CodeMissingRequired, "required field is missing"))
				res.FieldOK[f.Name] = false
				continue
			case f.Default != nil:
				raw = f.Default.Resolve()
			default:
				res.FieldOK[f.Name] = true
				continue
			}
		}

		coerced, errs := cf.check(raw)
		res.Errors = append(res.Errors, errs...)
		res.FieldOK[f.Name] = len(errs) == 0
		if len(errs) == 0 {
			res.Values[f.Name] = coerced
		}
	}

	// Closed schema: anything in the metadata that the schema does not
	// declare is a finding, sorted for deterministic output.
	var unknown []string
	for name := range meta {
		if _, ok := v.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		res.Errors = append(res.Errors, errorf(name, CodeUnknownField, "field is not defined in the schema"))
	}

	return res
}

// check validates a single present (or defaulted) value and returns its
// coerced form. Array fields validate per element; a non-array value for an
// array field is a field-level type mismatch.
func (cf *compiledField) check(raw any) (any, []Error) {
	f := cf.def
	if f.Array {
		seq, ok := raw.([]any)
		if !ok {
			return nil, []Error{errorf(f.Name, CodeTypeMismatch, "expected a list of %s values, got %s", f.Type, describe(raw))}
		}
		coerced := make([]any, 0, len(seq))
		var errs []Error
		for i, el := range seq {
			cv, elErrs := cf.checkScalar(el, fmt.Sprintf("%s[%d]", f.Name, i))
			if len(elErrs) > 0 {
				errs = append(errs, elErrs...)
				continue
			}
			coerced = append(coerced, cv)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return coerced, nil
	}
	return cf.checkScalar(raw, f.Name)
}

func (cf *compiledField) checkScalar(raw any, label string) (any, []Error) {
	f := cf.def
	coerced, ok := coerce(f.Type, raw)
	if !ok {
		return nil, []Error{errorf(label, CodeTypeMismatch, "expected %s, got %s", f.Type, describe(raw))}
	}

	var errs []Error
	if cf.enum != nil {
		if _, member := cf.enum[Key(coerced)]; !member {
			errs = append(errs, errorf(label, CodeEnumViolation, "%v is not one of %s", raw, enumList(f.Enum)))
		}
	}
	if cf.pattern != nil {
		if s, isStr := coerced.(string); isStr && !cf.pattern.MatchString(s) {
			errs = append(errs, errorf(label, CodePatternViolation, "%q does not match pattern %s", s, f.Pattern))
		}
	}
	if f.MinLength != nil {
		if s, isStr := coerced.(string); isStr && len([]rune(s)) < *f.MinLength {
			errs = append(errs, errorf(label, CodeConstraintViolation, "length %d is below minimum length %d", len([]rune(s)), *f.MinLength))
		}
	}
	if f.Minimum != nil {
		if n, isNum := coerced.(float64); isNum && n < *f.Minimum {
			errs = append(errs, errorf(label, CodeConstraintViolation, "%v is below minimum %v", raw, *f.Minimum))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return coerced, nil
}

// coerce converts a raw YAML value into the canonical Go representation for
// the base type: string, float64, bool, or time.Time.
func coerce(t BaseType, raw any) (any, bool) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		return s, ok
	case TypeNumber:
		switch n := raw.(type) {
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case uint64:
			return float64(n), true
		case float64:
			return n, true
		}
		return nil, false
	case TypeBoolean:
		b, ok := raw.(bool)
		return b, ok
	case TypeDate:
		switch d := raw.(type) {
		case time.Time:
			return d, true
		case string:
			if ts, err := time.Parse("2006-01-02", d); err == nil {
				return ts, true
			}
			if ts, err := time.Parse(time.RFC3339, d); err == nil {
				return ts, true
			}
		}
		return nil, false
	}
	return nil, false
}

// Key returns a canonical comparison key for a coerced value. Uniqueness and
// enum membership both compare coerced values through this key, so exact
// equality is well-defined across YAML's int/float ambiguity.
func Key(v any) string {
	switch x := v.(type) {
	case string:
		return "s:" + x
	case float64:
		return "n:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case time.Time:
		return "d:" + x.UTC().Format(time.RFC3339Nano)
	case []any:
		key := "a:"
		for _, el := range x {
			key += Key(el) + ";"
		}
		return key
	default:
		return fmt.Sprintf("v:%v", x)
	}
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return fmt.Sprintf("string %q", v)
	case int, int64, uint64, float64:
		return fmt.Sprintf("number %v", v)
	case bool:
		return fmt.Sprintf("boolean %v", v)
	case []any:
		return "a list"
	case map[string]any:
		return "a mapping"
	case time.Time:
		return fmt.Sprintf("date %v", v)
	default:
		return fmt.Sprintf("%T %v", v, v)
	}
}

func enumList(enum []any) string {
	out := "["
	for i, v := range enum {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%v", v)
	}
	return out + "]"
}
