// Package handler implements the HTTP handlers for the Tripfolio API.
// All handlers are methods on Server; methods are split into domain-specific
// files (trip.go, stage.go, watch.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/backend/internal/auth"
	"github.com/tripfolio/tripfolio/backend/internal/domain"
	"github.com/tripfolio/tripfolio/backend/internal/live"
	"github.com/tripfolio/tripfolio/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, owner uuid.UUID, meta domain.TripMetadata) (domain.Trip, error)
	GetByID(ctx context.Context, owner, tripID uuid.UUID) (domain.Trip, error)
	ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	UpdateMetadata(ctx context.Context, owner, tripID uuid.UUID, meta domain.TripMetadata) (domain.Trip, error)
	Delete(ctx context.Context, owner, tripID uuid.UUID) error

	AppendStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error)
	ReplaceStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error)
	RemoveStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) error

	AppendAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error)
	ReplaceAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error)
	RemoveAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) error
}

// UserServicer defines the business operations the auth and profile handlers
// depend on.
type UserServicer interface {
	Register(ctx context.Context, input service.RegisterInput) (domain.User, auth.TokenPair, error)
	Login(ctx context.Context, email, password string) (domain.User, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	GetProfile(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (domain.User, error)
}

// Watcher defines the live subscription operations the watch handlers depend on.
type Watcher interface {
	WatchTrip(ctx context.Context, tripID uuid.UUID) <-chan live.TripEvent
	WatchUser(ctx context.Context, userID uuid.UUID) <-chan live.UserEvent
}

// Server holds the dependencies shared by every handler method.
type Server struct {
	trips   TripServicer
	users   UserServicer
	watcher Watcher
	openapi []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the raw spec document served at /openapi.yaml; pass nil to
// disable the route.
func NewServer(trips TripServicer, users UserServicer, watcher Watcher, openapi []byte) *Server {
	return &Server{trips: trips, users: users, watcher: watcher, openapi: openapi}
}

// Routes builds the server's chi router. authMW is the bearer-token
// middleware gating the trip and profile routes; it is passed in rather than
// constructed here so tests can substitute a stub identity.
func (s *Server) Routes(authMW func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.Health)
	if s.openapi != nil {
		r.Get("/openapi.yaml", s.OpenAPISpec)
	}

	r.Post("/auth/register", s.Register)
	r.Post("/auth/login", s.Login)
	r.Post("/auth/refresh", s.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authMW)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Get("/watch", s.WatchTrip)
				r.Get("/itinerary", s.GetItinerary)

				r.Post("/stages", s.AppendStage)
				r.Put("/stages/{stageID}", s.ReplaceStage)
				r.Delete("/stages", s.RemoveStage)

				r.Post("/accommodations", s.AppendAccommodation)
				r.Put("/accommodations/{accommodationID}", s.ReplaceAccommodation)
				r.Delete("/accommodations", s.RemoveAccommodation)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.GetProfile)
			r.Patch("/", s.UpdateProfile)
			r.Get("/watch", s.WatchProfile)
		})
	})

	return r
}
