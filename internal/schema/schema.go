// Package schema models user-defined front matter schemas and compiles them
// into runtime validators.
//
// A schema is a closed, ordered set of field definitions. Compile translates
// the declarative definition into a Validator once per config load; applying
// the validator to a document's metadata is fail-soft and collects every
// finding instead of stopping at the first.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// BaseType is the scalar type of a field.
type BaseType string

const (
	TypeString  BaseType = "string"
	TypeNumber  BaseType = "number"
	TypeBoolean BaseType = "boolean"
	TypeDate    BaseType = "date"
)

// Field is the declarative definition of one front matter field.
type Field struct {
	Name      string
	Type      BaseType
	Required  bool
	Unique    bool
	Array     bool
	Enum      []any
	Pattern   string
	MinLength *int
	Minimum   *float64
	Default   *Default
}

// fieldSpec is the YAML shape of a field definition.
type fieldSpec struct {
	Type      string   `yaml:"type"`
	Required  bool     `yaml:"required"`
	Unique    bool     `yaml:"unique"`
	Array     bool     `yaml:"array"`
	Enum      []any    `yaml:"enum"`
	Pattern   string   `yaml:"pattern"`
	MinLength *int     `yaml:"min_length"`
	Minimum   *float64 `yaml:"minimum"`
	Default   *Default `yaml:"default"`
}

// Schema is an ordered set of field definitions for one document type.
// Declaration order in the config file is display order.
type Schema struct {
	Fields []Field
}

// UnmarshalYAML decodes a mapping of field name to definition while
// preserving the declaration order, which plain map decoding would lose.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: frontmatter must be a mapping, got %s", nodeKind(value))
	}
	s.Fields = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var spec fieldSpec
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("schema: field %q: %w", name, err)
		}
		s.Fields = append(s.Fields, Field{
			Name:      name,
			Type:      BaseType(spec.Type),
			Required:  spec.Required,
			Unique:    spec.Unique,
			Array:     spec.Array,
			Enum:      spec.Enum,
			Pattern:   spec.Pattern,
			MinLength: spec.MinLength,
			Minimum:   spec.Minimum,
			Default:   spec.Default,
		})
	}
	return nil
}

// Field returns the definition for name, if declared.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FromString converts a raw string (typically a CLI --field value) into the
// value shape this field expects. Array fields split on commas.
func (f Field) FromString(raw string) (any, error) {
	if f.Array {
		parts := strings.Split(raw, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := f.scalarFromString(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return f.scalarFromString(raw)
}

func (f Field) scalarFromString(raw string) (any, error) {
	switch f.Type {
	case TypeString, TypeDate:
		return raw, nil
	case TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %q is not a number", f.Name, raw)
		}
		return n, nil
	case TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %q is not a boolean", f.Name, raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
	}
}

// Default is the default value of a field: either a literal from the config
// or a named zero-argument generator resolved at validation time.
type Default struct {
	literal  any
	genName  string
	generate func() any
}

// generators are the named default-value producers available in schema
// definitions. Names start with "$" to keep them distinct from literals.
var generators = map[string]func() any{
	"$uuid":  func() any { return uuid.NewString() },
	"$now":   func() any { return time.Now().Format(time.RFC3339) },
	"$today": func() any { return time.Now().Format("2006-01-02") },
}

// LiteralDefault wraps a literal default value.
func LiteralDefault(v any) *Default {
	return &Default{literal: v}
}

// UnmarshalYAML decodes either a generator reference ("$uuid", "$now",
// "$today") or a literal of any scalar/sequence shape.
func (d *Default) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok && strings.HasPrefix(s, "$") {
		gen, ok := generators[s]
		if !ok {
			return fmt.Errorf("schema: unknown default generator %q", s)
		}
		d.genName = s
		d.generate = gen
		return nil
	}
	d.literal = raw
	return nil
}

// Resolve materializes the default. Generators are invoked on every call, so
// callers must resolve at most once per document per run.
func (d *Default) Resolve() any {
	if d.generate != nil {
		return d.generate()
	}
	return d.literal
}

// IsGenerator reports whether the default is produced by a generator rather
// than a config literal.
func (d *Default) IsGenerator() bool {
	return d.generate != nil
}

// Literal returns the literal value, or nil for generator defaults.
func (d *Default) Literal() any {
	return d.literal
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "unknown node"
	}
}
