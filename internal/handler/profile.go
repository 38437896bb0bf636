package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// profileResponse is the JSON representation of a user profile.
type profileResponse struct {
	ID        uuid.UUID           `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Email     openapi_types.Email `json:"email"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// profileUpdateRequest is the JSON body for PATCH /profile. Absent fields
// are left untouched.
type profileUpdateRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// GetProfile handles GET /profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity(w, r)
	if !ok {
		return
	}

	user, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// UpdateProfile handles PATCH /profile, applying a partial edit of the
// display names.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity(w, r)
	if !ok {
		return
	}

	var body profileUpdateRequest
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// userToResponse converts a domain.User into its JSON representation.
// The password hash never appears here.
func userToResponse(u domain.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     openapi_types.Email(u.Email),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
