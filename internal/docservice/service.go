// Package docservice implements the document workflows: creation from a
// template, status changes, validation runs, and index synchronization.
package docservice

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/folio-md/folio/internal/apperr"
	"github.com/folio-md/folio/internal/document"
	"github.com/folio-md/folio/internal/indexer"
	"github.com/folio-md/folio/internal/project"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/template"
	"github.com/folio-md/folio/internal/validate"
)

// Service coordinates project configuration, storage, and the validation and
// indexing engines.
type Service struct {
	proj *project.Project
	log  *slog.Logger
}

// NewService creates a new document service.
func NewService(proj *project.Project, log *slog.Logger) *Service {
	return &Service{proj: proj, log: log}
}

// Load returns every document of the type, excluding the index file.
func (s *Service) Load(ctx context.Context, t *project.DocType) ([]document.Document, error) {
	return document.Load(ctx, s.proj.Store, t.Dir(), t.IndexFile())
}

// Validate loads and validates every document of the type.
func (s *Service) Validate(ctx context.Context, t *project.DocType) (*validate.Report, error) {
	docs, err := s.Load(ctx, t)
	if err != nil {
		return nil, err
	}
	return validate.Run(docs, t.Validator), nil
}

// SyncIndex regenerates the type's index file region.
func (s *Service) SyncIndex(ctx context.Context, t *project.DocType) error {
	docs, err := s.Load(ctx, t)
	if err != nil {
		return err
	}
	opts := indexer.Options{Columns: t.Indexing.Columns, Format: t.Indexing.Format}
	if err := indexer.Sync(s.proj.Store, t.Dir(), t.IndexPath(), docs, opts); err != nil {
		return err
	}
	s.log.Debug("index synchronized", slog.String("type", t.Name), slog.String("file", t.IndexPath()))
	return nil
}

// SyncAllIndexes synchronizes every type's index. A write failure is fatal
// for that one type only; the remaining types are still processed and the
// first failure is returned at the end.
func (s *Service) SyncAllIndexes(ctx context.Context) error {
	types, err := s.proj.Types()
	if err != nil {
		return err
	}
	var firstErr error
	for _, t := range types {
		if err := s.SyncIndex(ctx, t); err != nil {
			s.log.Error("index sync failed", slog.String("type", t.Name), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Create builds a new document of the type: field values are parsed against
// the schema, an "id" is assigned when the schema declares a numeric one,
// defaults are materialized, and the result is validated (including
// uniqueness against existing documents) before anything is written. On
// success the type's index is re-synchronized.
func (s *Service) Create(ctx context.Context, typeName, title string, fields map[string]string) (string, error) {
	t, err := s.proj.Type(typeName)
	if err != nil {
		return "", err
	}
	docs, err := s.Load(ctx, t)
	if err != nil {
		return "", err
	}

	meta, err := s.buildMeta(t, title, fields, docs)
	if err != nil {
		return "", err
	}

	file := filename(meta, title)
	rel := path.Join(t.Dir(), file)
	if exists, err := s.proj.Store.Exists(rel); err != nil {
		return "", err
	} else if exists {
		return "", fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, rel)
	}

	// Validate before writing, with the new document appended so the unique
	// checks run against the existing set.
	candidate := document.Document{File: file, Meta: meta}
	rep := validate.Run(append(docs, candidate), t.Validator)
	if dr, ok := rep.Result(file); ok && !dr.Valid {
		return "", fmt.Errorf("new document is invalid: %s", joinErrors(dr.Errors))
	}

	body, err := s.renderBody(t, title, meta)
	if err != nil {
		return "", err
	}
	fm, err := frontmatter(t.Validator.Fields(), meta)
	if err != nil {
		return "", err
	}

	if err := s.proj.Store.Write(rel, document.Compose(fm, body)); err != nil {
		return "", err
	}
	s.log.Info("document created", slog.String("type", typeName), slog.String("path", rel))

	if err := s.SyncIndex(ctx, t); err != nil {
		return rel, err
	}
	return rel, nil
}

// SetStatus rewrites the status value inside an existing document's front
// matter, leaving the body and every other header line untouched, then
// re-synchronizes the type's index.
func (s *Service) SetStatus(ctx context.Context, typeName, file, status string) error {
	t, err := s.proj.Type(typeName)
	if err != nil {
		return err
	}
	f, ok := findField(t.Validator.Fields(), "status")
	if !ok {
		return fmt.Errorf("type %q has no status field", typeName)
	}
	if err := checkScalar(t, f, status); err != nil {
		return err
	}

	rel := path.Join(t.Dir(), file)
	data, err := s.proj.Store.Read(rel)
	if err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, rel)
	}
	updated, err := setHeaderValue(data, "status", status)
	if err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}
	if err := s.proj.Store.Write(rel, updated); err != nil {
		return err
	}
	s.log.Info("status updated", slog.String("path", rel), slog.String("status", status))

	return s.SyncIndex(ctx, t)
}

// Deprecate marks a document deprecated via its status field.
func (s *Service) Deprecate(ctx context.Context, typeName, file string) error {
	return s.SetStatus(ctx, typeName, file, "deprecated")
}

// buildMeta assembles the new document's metadata in schema field order.
func (s *Service) buildMeta(t *project.DocType, title string, fields map[string]string, existing []document.Document) (map[string]any, error) {
	defs := t.Validator.Fields()

	for name := range fields {
		if _, ok := findField(defs, name); !ok {
			return nil, fmt.Errorf("field %q is not defined in the %s schema", name, t.Name)
		}
	}

	meta := make(map[string]any, len(defs))
	for _, f := range defs {
		if raw, ok := fields[f.Name]; ok {
			v, err := f.FromString(raw)
			if err != nil {
				return nil, err
			}
			meta[f.Name] = v
			continue
		}
		switch {
		case f.Name == "id" && f.Type == schema.TypeNumber:
			meta[f.Name] = nextID(existing)
		case f.Name == "title" && f.Type == schema.TypeString && title != "":
			meta[f.Name] = title
		case f.Default != nil:
			meta[f.Name] = f.Default.Resolve()
		}
	}
	return meta, nil
}

func (s *Service) renderBody(t *project.DocType, title string, meta map[string]any) (string, error) {
	var text string
	if t.Config.Template != "" {
		data, err := s.proj.Store.Read(t.Config.Template)
		if err == nil {
			text = string(data)
		} else {
			s.log.Warn("template missing, using fallback", slog.String("template", t.Config.Template))
		}
	}
	return template.Render(text, template.Data{Title: title, Type: t.Name, Fields: meta})
}

// nextID returns max(id)+1 over the existing documents, starting at 1.
// Documents without a numeric id are skipped.
func nextID(docs []document.Document) float64 {
	max := 0.0
	for _, d := range docs {
		if v, ok := d.Meta["id"]; ok {
			switch n := v.(type) {
			case int:
				if float64(n) > max {
					max = float64(n)
				}
			case int64:
				if float64(n) > max {
					max = float64(n)
				}
			case float64:
				if n > max {
					max = n
				}
			}
		}
	}
	return max + 1
}

// filename derives the new document's file name: zero-padded id prefix when
// an id was assigned, then a slug of the title.
func filename(meta map[string]any, title string) string {
	s := slug(title)
	if s == "" {
		s = "untitled"
	}
	if v, ok := meta["id"]; ok {
		if n, isNum := v.(float64); isNum {
			return fmt.Sprintf("%04d-%s.md", int(n), s)
		}
	}
	return s + ".md"
}

func slug(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// frontmatter serializes meta as YAML lines in schema field order, skipping
// fields without a value.
func frontmatter(defs []schema.Field, meta map[string]any) (string, error) {
	var b strings.Builder
	for _, f := range defs {
		v, ok := meta[f.Name]
		if !ok {
			continue
		}
		line, err := yaml.Marshal(map[string]any{f.Name: normalize(v)})
		if err != nil {
			return "", fmt.Errorf("marshal field %q: %w", f.Name, err)
		}
		b.Write(line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// normalize rewrites integral floats as ints so ids serialize as "1", not
// "1.0"-style scientific forms.
func normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = normalize(el)
		}
		return out
	}
	return v
}

func findField(defs []schema.Field, name string) (schema.Field, bool) {
	for _, f := range defs {
		if f.Name == name {
			return f, true
		}
	}
	return schema.Field{}, false
}

// checkScalar validates a single raw value against one field by applying the
// type's validator to a one-field metadata map.
func checkScalar(t *project.DocType, f schema.Field, raw string) error {
	v, err := f.FromString(raw)
	if err != nil {
		return err
	}
	res := t.Validator.Apply(map[string]any{f.Name: v})
	for _, e := range res.Errors {
		if e.Field == f.Name {
			return fmt.Errorf("invalid %s: %s", f.Name, e.Message)
		}
	}
	return nil
}

// setHeaderValue replaces (or inserts) one key's line inside the front
// matter block, textually, so hand-written formatting elsewhere survives.
func setHeaderValue(data []byte, key, value string) ([]byte, error) {
	content := string(data)
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return nil, fmt.Errorf("document has no front matter block")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("front matter fence is not closed")
	}

	replacement := key + ": " + value
	for i := 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, key+":") && !strings.HasPrefix(lines[i], " ") {
			lines[i] = replacement
			return []byte(strings.Join(lines, "\n")), nil
		}
	}

	// Key absent: insert just before the closing fence.
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:end]...)
	out = append(out, replacement)
	out = append(out, lines[end:]...)
	return []byte(strings.Join(out, "\n")), nil
}

func joinErrors(errs []schema.Error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}
