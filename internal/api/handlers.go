package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folio-md/folio/internal/apperr"
)

// Handler holds the API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListTypes handles GET /api/types.
func (h *Handler) ListTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"types": h.svc.Types(),
	})
}

// ListDocuments handles GET /api/types/{type}/documents.
//
// Query parameters: "q" is a case-insensitive substring match over title and
// body; every other parameter is an exact metadata attribute filter, e.g.
// ?status=accepted.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")

	q := ""
	filters := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		if key == "q" {
			q = vals[0]
			continue
		}
		filters[key] = vals[0]
	}

	docs, err := h.svc.Documents(typeName, filters, q)
	if err != nil {
		h.writeError(w, typeName, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument handles GET /api/types/{type}/documents/{file}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")
	file := chi.URLParam(r, "file")

	doc, err := h.svc.Document(typeName, file)
	if err != nil {
		h.writeError(w, typeName, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Validation handles GET /api/types/{type}/validation.
func (h *Handler) Validation(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")

	rep, err := h.svc.Validation(typeName)
	if err != nil {
		h.writeError(w, typeName, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Prompt handles GET /api/types/{type}/prompt, returning a plain-text agent
// context prompt.
func (h *Handler) Prompt(w http.ResponseWriter, r *http.Request) {
	typeName := chi.URLParam(r, "type")

	text, err := h.svc.Prompt(typeName)
	if err != nil {
		h.writeError(w, typeName, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *Handler) writeError(w http.ResponseWriter, typeName string, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnknownType):
		writeJSON(w, http.StatusNotFound, errorBody("unknown type: "+typeName))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error("api request failed", slog.String("type", typeName), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
