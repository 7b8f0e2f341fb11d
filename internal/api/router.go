package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all read API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/types", h.ListTypes)
	r.Get("/types/{type}/documents", h.ListDocuments)
	r.Get("/types/{type}/documents/{file}", h.GetDocument)
	r.Get("/types/{type}/validation", h.Validation)
	r.Get("/types/{type}/prompt", h.Prompt)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
