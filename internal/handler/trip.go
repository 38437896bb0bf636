package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripfolio/tripfolio/backend/internal/auth"
	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// tripRequest is the JSON body for trip create and metadata update.
// Dates are calendar days in "YYYY-MM-DD" form.
type tripRequest struct {
	Name         string             `json:"name"`
	StartDate    openapi_types.Date `json:"start_date"`
	EndDate      openapi_types.Date `json:"end_date"`
	Notes        *string            `json:"notes,omitempty"`
	Destinations []string           `json:"destinations"`
}

// tripResponse is the JSON representation of a trip document.
type tripResponse struct {
	ID             uuid.UUID              `json:"id"`
	Name           string                 `json:"name"`
	StartDate      openapi_types.Date     `json:"start_date"`
	EndDate        openapi_types.Date     `json:"end_date"`
	Owner          uuid.UUID              `json:"owner"`
	Destinations   []string               `json:"destinations"`
	Notes          *string                `json:"notes,omitempty"`
	Stages         []domain.Stage         `json:"stages"`
	Accommodations []domain.Accommodation `json:"accommodations"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// paginationResponse echoes the effective paging values alongside a list.
type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// tripListResponse is the JSON body for GET /trips.
type tripListResponse struct {
	Data       []tripResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}

	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), owner, requestToMetadata(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListByOwner(r.Context(), owner, params)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data: data,
		Pagination: paginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), owner, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}. Only the scalar metadata fields
// are updated; stages and accommodations have their own routes.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.UpdateMetadata(r.Context(), owner, tripID, requestToMetadata(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}. Deleting a trip that is already
// gone returns 204 as well: delete is idempotent.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), owner, tripID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- shared helpers ---------------------------------------------------------

// identity returns the authenticated user, writing a 401 when the route was
// somehow reached without passing the auth middleware.
func identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: errorDetail{Code: "unauthorized", Message: "authentication required"},
		})
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a UUID path parameter, rejecting the request on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeRequestError(w, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; malformed values are
// treated as absent.
func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// requestToMetadata converts a tripRequest body into domain.TripMetadata.
func requestToMetadata(body tripRequest) domain.TripMetadata {
	meta := domain.TripMetadata{
		Name:         body.Name,
		StartDate:    body.StartDate.Time,
		EndDate:      body.EndDate.Time,
		Destinations: body.Destinations,
	}
	if body.Notes != nil {
		meta.Notes = *body.Notes
	}
	return meta
}

// tripToResponse converts a domain.Trip into its JSON representation.
// Child collections are always arrays, never null, so clients can iterate
// without guarding.
func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:             t.ID,
		Name:           t.Name,
		StartDate:      openapi_types.Date{Time: t.StartDate},
		EndDate:        openapi_types.Date{Time: t.EndDate},
		Owner:          t.Owner,
		Destinations:   t.Destinations,
		Stages:         t.Stages,
		Accommodations: t.Accommodations,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if resp.Destinations == nil {
		resp.Destinations = []string{}
	}
	if resp.Stages == nil {
		resp.Stages = []domain.Stage{}
	}
	if resp.Accommodations == nil {
		resp.Accommodations = []domain.Accommodation{}
	}
	if t.Notes != "" {
		resp.Notes = &t.Notes
	}
	return resp
}
