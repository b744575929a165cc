// Package server exposes the persistence layer to UI clients over HTTP.
// It is a thin consumer: every handler maps a request onto one store,
// folder, mirror, backup, catalog, or assistant operation and renders
// the result as JSON.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/myhead2001/Pornhwa/internal/assistant"
	"github.com/myhead2001/Pornhwa/internal/backup"
	"github.com/myhead2001/Pornhwa/internal/catalog"
	"github.com/myhead2001/Pornhwa/internal/folder"
	"github.com/myhead2001/Pornhwa/internal/mirror"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Deps holds the collaborators the HTTP layer serves.
type Deps struct {
	Store     types.Store
	Folders   *folder.Manager
	Mirror    *mirror.Mirror
	Backup    *backup.Codec
	Catalog   *catalog.Client
	Assistant *assistant.Client
}

// Server is the HTTP API.
type Server struct {
	deps Deps
	log  *slog.Logger
}

// NewRouter builds the API router over the given dependencies.
func NewRouter(deps Deps) http.Handler {
	s := &Server{
		deps: deps,
		log:  slog.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleQueryItems)
		r.Post("/items", s.handleCreateItem)
		r.Get("/items/{id}", s.handleGetItem)
		r.Patch("/items/{id}", s.handleUpdateItem)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Get("/items/{id}/notes", s.handleListNotes)
		r.Post("/items/{id}/notes", s.handleAddNote)
		r.Patch("/notes/{id}", s.handleUpdateNote)
		r.Delete("/notes/{id}", s.handleDeleteNote)

		r.Get("/library", s.handleLibraryStatus)
		r.Post("/library/link", s.handleLink)
		r.Post("/library/permission", s.handleRequestPermission)
		r.Post("/library/sync", s.handleSync)

		r.Get("/backup", s.handleExport)
		r.Post("/backup", s.handleImport)
		r.Post("/clear", s.handleClear)

		r.Get("/search", s.handleSearch)
		r.Post("/assistant/scene", s.handleScene)
		r.Post("/assistant/summary", s.handleSummary)

		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handlePutSetting)
	})

	return r
}

// respondJSON writes v with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.log.Error("failed to encode response", "error", err)
		}
	}
}

// respondError maps the error taxonomy onto HTTP status codes.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidFormat),
		errors.Is(err, types.ErrTitleEmpty),
		errors.Is(err, types.ErrInvalidRating),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidOwner):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrNotLinked):
		status = http.StatusConflict
	case errors.Is(err, types.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, types.ErrUnsupported):
		status = http.StatusNotImplemented
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}
