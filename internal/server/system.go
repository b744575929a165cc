// Library folder, backup, catalog, assistant, and settings handlers.

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myhead2001/Pornhwa/internal/folder"
	"github.com/myhead2001/Pornhwa/pkg/types"
)

func (s *Server) handleLibraryStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"linked": s.deps.Folders.IsLinked(),
		"state":  s.deps.Folders.LinkState().String(),
	})
}

// handleLink links the directory named in the body. An empty or missing
// dir counts as the user cancelling the chooser, which is a silent
// success.
func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Dir string `json:"dir"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}

	ctx := folder.WithPickedDir(r.Context(), body.Dir)
	outcome, err := s.deps.Folders.Link(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{
		"linked":    outcome == folder.LinkOK,
		"cancelled": outcome == folder.LinkCancelled,
	})
}

func (s *Server) handleRequestPermission(w http.ResponseWriter, r *http.Request) {
	granted, err := s.deps.Folders.RequestPermission(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"granted": granted})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Mirror.SyncFromDisk(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	raw, err := s.deps.Backup.ExportJSON()
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pornhwa-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	if err := s.deps.Backup.Import(raw); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// handleClear wipes everything. Mirror files go first: bulk clears do
// not emit change events, so nothing else would remove them.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Mirror.ClearFiles(r.Context()); err != nil {
		s.log.Warn("failed to clear mirror files", "error", err)
	}
	if err := s.deps.Store.ClearAll(); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results := s.deps.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string `json:"title"`
		Chapter  int    `json:"chapter"`
		Keywords string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	text, err := s.deps.Assistant.GenerateScene(r.Context(), body.Title, body.Chapter, body.Keywords)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Titles []string `json:"titles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	text, err := s.deps.Assistant.SummarizeHistory(r.Context(), body.Titles)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := s.deps.Store.GetSetting(key)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, types.SettingEntry{Key: key, Value: value})
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	if err := s.deps.Store.SetSetting(key, body.Value); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
