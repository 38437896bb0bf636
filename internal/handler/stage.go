package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// AppendStage handles POST /trips/{tripID}/stages. The stage ID is optional:
// the service generates one when absent. The write is the atomic append
// primitive, so it can never clobber stages added concurrently elsewhere.
func (s *Server) AppendStage(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var stage domain.Stage
	if !decodeBody(w, r, &stage) {
		return
	}

	created, err := s.trips.AppendStage(r.Context(), owner, tripID, stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ReplaceStage handles PUT /trips/{tripID}/stages/{stageID}. The whole stage
// record is replaced in place within the collection; the path ID wins over
// any ID in the body.
func (s *Server) ReplaceStage(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var stage domain.Stage
	if !decodeBody(w, r, &stage) {
		return
	}
	stage.ID = chi.URLParam(r, "stageID")

	updated, err := s.trips.ReplaceStage(r.Context(), owner, tripID, stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveStage handles DELETE /trips/{tripID}/stages. The body must carry the
// exact currently-known stage value: removal matches on structural equality,
// and a value that differs in any field removes nothing — which is still a
// 204, not an error.
func (s *Server) RemoveStage(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var stage domain.Stage
	if !decodeBody(w, r, &stage) {
		return
	}

	if err := s.trips.RemoveStage(r.Context(), owner, tripID, stage); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
