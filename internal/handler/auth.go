package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripfolio/tripfolio/backend/internal/auth"
	"github.com/tripfolio/tripfolio/backend/internal/service"
)

// registerRequest is the JSON body for POST /auth/register.
type registerRequest struct {
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Email     openapi_types.Email `json:"email"`
	Password  string              `json:"password"`
}

// loginRequest is the JSON body for POST /auth/login.
type loginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// refreshRequest is the JSON body for POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// sessionResponse is the JSON body returned by register and login.
type sessionResponse struct {
	User   profileResponse `json:"user"`
	Tokens auth.TokenPair  `json:"tokens"`
}

// Register handles POST /auth/register: creates the profile and signs the
// new user in.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeBody(w, r, &body) {
		return
	}

	user, tokens, err := s.users.Register(r.Context(), service.RegisterInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     string(body.Email),
		Password:  body.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: userToResponse(user), Tokens: tokens})
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeBody(w, r, &body) {
		return
	}

	user, tokens, err := s.users.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: userToResponse(user), Tokens: tokens})
}

// Refresh handles POST /auth/refresh, rotating the token pair.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if !decodeBody(w, r, &body) {
		return
	}

	tokens, err := s.users.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}
