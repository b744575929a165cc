// Item and note handlers.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id", types.ErrInvalidFormat)
	}
	return id, nil
}

// handleQueryItems translates query parameters into a store query.
//
//	GET /api/items?text=&tag=&status=Reading,Completed&minRating=3&sort=rating&desc=1
func (s *Server) handleQueryItems(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := types.Query{
		Text:        params.Get("text"),
		TagContains: params.Get("tag"),
	}
	if v := params.Get("status"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			q.Statuses = append(q.Statuses, types.Status(raw))
		}
	}
	if v := params.Get("minRating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, fmt.Errorf("%w: bad minRating", types.ErrInvalidFormat))
			return
		}
		q.MinRating = n
	}
	switch params.Get("sort") {
	case "", "title":
		q.SortBy = types.SortByTitle
	case "rating":
		q.SortBy = types.SortByRating
	case "created":
		q.SortBy = types.SortByCreatedAt
	case "accessed":
		q.SortBy = types.SortByLastAccessedAt
	default:
		s.respondError(w, fmt.Errorf("%w: bad sort field", types.ErrInvalidFormat))
		return
	}
	q.SortDesc = params.Get("desc") == "1"

	items, err := s.deps.Store.QueryItems(q)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if items == nil {
		items = []*types.Item{}
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item types.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	id, err := s.deps.Store.CreateItem(&item)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// handleGetItem returns the item and stamps its last-access time; the
// UI calls this when opening the detail view.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.deps.Store.TouchItem(id); err != nil {
		s.respondError(w, err)
		return
	}
	item, err := s.deps.Store.GetItem(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

// itemPatchBody is the over-the-wire partial update; pointer fields
// distinguish "absent" from "set to zero".
type itemPatchBody struct {
	ExternalID        *string       `json:"externalId"`
	Title             *string       `json:"title"`
	AlternativeTitles *[]string     `json:"alternativeTitles"`
	CoverURL          *string       `json:"coverUrl"`
	PrimaryCreator    *string       `json:"primaryCreator"`
	Creators          *[]string     `json:"creators"`
	Rating            *int          `json:"rating"`
	Status            *types.Status `json:"status"`
	Tags              *[]string     `json:"tags"`
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var body itemPatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	patch := types.ItemPatch{
		ExternalID:        body.ExternalID,
		Title:             body.Title,
		AlternativeTitles: body.AlternativeTitles,
		CoverURL:          body.CoverURL,
		PrimaryCreator:    body.PrimaryCreator,
		Creators:          body.Creators,
		Rating:            body.Rating,
		Status:            body.Status,
		Tags:              body.Tags,
	}
	if err := s.deps.Store.UpdateItem(id, patch); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.deps.Store.DeleteItem(id); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	notes, err := s.deps.Store.NotesForItem(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if notes == nil {
		notes = []*types.Note{}
	}
	s.respondJSON(w, http.StatusOK, notes)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var note types.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	note.ItemID = id
	noteID, err := s.deps.Store.AddNote(&note)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]int64{"id": noteID})
}

type notePatchBody struct {
	Chapter      *int      `json:"chapter"`
	Body         *string   `json:"body"`
	Participants *[]string `json:"participants"`
	Tags         *[]string `json:"tags"`
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var body notePatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, fmt.Errorf("%w: %v", types.ErrInvalidFormat, err))
		return
	}
	patch := types.NotePatch{
		Chapter:      body.Chapter,
		Body:         body.Body,
		Participants: body.Participants,
		Tags:         body.Tags,
	}
	if err := s.deps.Store.UpdateNote(id, patch); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.deps.Store.DeleteNote(id); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
