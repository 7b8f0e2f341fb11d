package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/folio-md/folio/internal/apperr"
	"github.com/folio-md/folio/internal/document"
	"github.com/folio-md/folio/internal/project"
	"github.com/folio-md/folio/internal/prompt"
	"github.com/folio-md/folio/internal/schema"
	"github.com/folio-md/folio/internal/validate"
)

// typeSnapshot is the cached state of one document type.
type typeSnapshot struct {
	docType *project.DocType
	docs    []document.Document
	report  *validate.Report
}

// Service serves the read API from an in-memory snapshot of the document
// collection. Reload rebuilds the snapshot under a write lock; request
// handlers only take read locks, so a single index or document file is never
// observed mid-rewrite.
type Service struct {
	proj *project.Project
	log  *slog.Logger

	mu   sync.RWMutex
	snap map[string]*typeSnapshot
}

// NewService creates a new read API service. Call Reload before serving.
func NewService(proj *project.Project, log *slog.Logger) *Service {
	return &Service{
		proj: proj,
		log:  log,
		snap: make(map[string]*typeSnapshot),
	}
}

// Reload rescans every document type and replaces the snapshot.
func (s *Service) Reload(ctx context.Context) error {
	types, err := s.proj.Types()
	if err != nil {
		return err
	}

	next := make(map[string]*typeSnapshot, len(types))
	for _, t := range types {
		docs, err := document.Load(ctx, s.proj.Store, t.Dir(), t.IndexFile())
		if err != nil {
			return fmt.Errorf("load %s: %w", t.Name, err)
		}
		next[t.Name] = &typeSnapshot{
			docType: t,
			docs:    docs,
			report:  validate.Run(docs, t.Validator),
		}
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.log.Debug("collection reloaded", slog.Int("types", len(next)))
	return nil
}

// TypeInfo summarizes one document type for listings.
type TypeInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Documents int    `json:"documents"`
	Invalid   int    `json:"invalid"`
}

// Types returns every configured type with document counts.
func (s *Service) Types() []TypeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TypeInfo
	for _, name := range s.proj.TypeNames() {
		snap, ok := s.snap[name]
		if !ok {
			continue
		}
		out = append(out, TypeInfo{
			Name:      name,
			Path:      snap.docType.Dir(),
			Documents: len(snap.docs),
			Invalid:   snap.report.Invalid,
		})
	}
	return out
}

// DocSummary is a lightweight document representation for list responses.
type DocSummary struct {
	File      string         `json:"file"`
	Path      string         `json:"path"`
	Title     string         `json:"title,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	Checksum  string         `json:"checksum"`
	Valid     bool           `json:"valid"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DocDetail is the full document representation.
type DocDetail struct {
	DocSummary
	Body   string         `json:"body"`
	Errors []schema.Error `json:"errors"`
}

// Documents lists documents of one type, optionally filtered. filters are
// exact matches against metadata attributes (compared on their display
// form); q is a case-insensitive substring match over title and body. The
// scan is linear over the in-memory snapshot.
func (s *Service) Documents(typeName string, filters map[string]string, q string) ([]DocSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snap[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownType, typeName)
	}

	q = strings.ToLower(q)
	out := []DocSummary{}
	for _, d := range snap.docs {
		if !matchFilters(d, filters) {
			continue
		}
		if q != "" && !matchQuery(d, q) {
			continue
		}
		out = append(out, summarize(snap, d))
	}
	return out, nil
}

// Document returns one document of a type by file name.
func (s *Service) Document(typeName, file string) (*DocDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snap[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownType, typeName)
	}
	for _, d := range snap.docs {
		if d.File == file {
			detail := &DocDetail{
				DocSummary: summarize(snap, d),
				Body:       d.Body,
				Errors:     []schema.Error{},
			}
			if dr, ok := snap.report.Result(file); ok && dr.Errors != nil {
				detail.Errors = dr.Errors
			}
			return detail, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Validation returns the cached validation report for a type.
func (s *Service) Validation(typeName string) (*validate.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snap[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownType, typeName)
	}
	return snap.report, nil
}

// Prompt renders the agent context prompt for a type.
func (s *Service) Prompt(typeName string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snap[typeName]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperr.ErrUnknownType, typeName)
	}
	return prompt.Build(snap.docType, snap.docs, snap.report), nil
}

func summarize(snap *typeSnapshot, d document.Document) DocSummary {
	title := ""
	if v, ok := d.Meta["title"]; ok && v != nil {
		title = fmt.Sprintf("%v", v)
	}
	valid := false
	if dr, ok := snap.report.Result(d.File); ok {
		valid = dr.Valid
	}
	return DocSummary{
		File:      d.File,
		Path:      d.Path,
		Title:     title,
		Meta:      d.Meta,
		Checksum:  d.Checksum,
		Valid:     valid,
		UpdatedAt: d.UpdatedAt,
	}
}

func matchFilters(d document.Document, filters map[string]string) bool {
	for key, want := range filters {
		v, ok := d.Meta[key]
		if !ok || v == nil {
			return false
		}
		if displayValue(v) != want {
			return false
		}
	}
	return true
}

func matchQuery(d document.Document, q string) bool {
	if v, ok := d.Meta["title"]; ok && v != nil {
		if strings.Contains(strings.ToLower(fmt.Sprintf("%v", v)), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(d.Body), q)
}

func displayValue(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}
