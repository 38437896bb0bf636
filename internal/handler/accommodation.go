package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// AppendAccommodation handles POST /trips/{tripID}/accommodations.
func (s *Server) AppendAccommodation(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var acc domain.Accommodation
	if !decodeBody(w, r, &acc) {
		return
	}

	created, err := s.trips.AppendAccommodation(r.Context(), owner, tripID, acc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ReplaceAccommodation handles PUT /trips/{tripID}/accommodations/{accommodationID}.
func (s *Server) ReplaceAccommodation(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var acc domain.Accommodation
	if !decodeBody(w, r, &acc) {
		return
	}
	acc.ID = chi.URLParam(r, "accommodationID")

	updated, err := s.trips.ReplaceAccommodation(r.Context(), owner, tripID, acc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveAccommodation handles DELETE /trips/{tripID}/accommodations with the
// same exact-value contract as RemoveStage.
func (s *Server) RemoveAccommodation(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var acc domain.Accommodation
	if !decodeBody(w, r, &acc) {
		return
	}

	if err := s.trips.RemoveAccommodation(r.Context(), owner, tripID, acc); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
