package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/backend/internal/auth"
	"github.com/tripfolio/tripfolio/backend/internal/domain"
	"github.com/tripfolio/tripfolio/backend/internal/handler"
	"github.com/tripfolio/tripfolio/backend/internal/live"
	"github.com/tripfolio/tripfolio/backend/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create         func(ctx context.Context, owner uuid.UUID, meta domain.TripMetadata) (domain.Trip, error)
	getByID        func(ctx context.Context, owner, tripID uuid.UUID) (domain.Trip, error)
	listByOwner    func(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	updateMetadata func(ctx context.Context, owner, tripID uuid.UUID, meta domain.TripMetadata) (domain.Trip, error)
	delete         func(ctx context.Context, owner, tripID uuid.UUID) error

	appendStage  func(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error)
	replaceStage func(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error)
	removeStage  func(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) error

	appendAccommodation  func(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error)
	replaceAccommodation func(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error)
	removeAccommodation  func(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) error
}

func (m *mockTripServicer) Create(ctx context.Context, owner uuid.UUID, meta domain.TripMetadata) (domain.Trip, error) {
	return m.create(ctx, owner, meta)
}
func (m *mockTripServicer) GetByID(ctx context.Context, owner, tripID uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, owner, tripID)
}
func (m *mockTripServicer) ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByOwner(ctx, owner, p)
}
func (m *mockTripServicer) UpdateMetadata(ctx context.Context, owner, tripID uuid.UUID, meta domain.TripMetadata) (domain.Trip, error) {
	return m.updateMetadata(ctx, owner, tripID, meta)
}
func (m *mockTripServicer) Delete(ctx context.Context, owner, tripID uuid.UUID) error {
	return m.delete(ctx, owner, tripID)
}
func (m *mockTripServicer) AppendStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error) {
	return m.appendStage(ctx, owner, tripID, stage)
}
func (m *mockTripServicer) ReplaceStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error) {
	return m.replaceStage(ctx, owner, tripID, stage)
}
func (m *mockTripServicer) RemoveStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) error {
	return m.removeStage(ctx, owner, tripID, stage)
}
func (m *mockTripServicer) AppendAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error) {
	return m.appendAccommodation(ctx, owner, tripID, acc)
}
func (m *mockTripServicer) ReplaceAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error) {
	return m.replaceAccommodation(ctx, owner, tripID, acc)
}
func (m *mockTripServicer) RemoveAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) error {
	return m.removeAccommodation(ctx, owner, tripID, acc)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockUserServicer is a test double for handler.UserServicer.
type mockUserServicer struct {
	register      func(ctx context.Context, input service.RegisterInput) (domain.User, auth.TokenPair, error)
	login         func(ctx context.Context, email, password string) (domain.User, auth.TokenPair, error)
	refresh       func(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	getProfile    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	updateProfile func(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (domain.User, error)
}

func (m *mockUserServicer) Register(ctx context.Context, input service.RegisterInput) (domain.User, auth.TokenPair, error) {
	return m.register(ctx, input)
}
func (m *mockUserServicer) Login(ctx context.Context, email, password string) (domain.User, auth.TokenPair, error) {
	return m.login(ctx, email, password)
}
func (m *mockUserServicer) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	return m.refresh(ctx, refreshToken)
}
func (m *mockUserServicer) GetProfile(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getProfile(ctx, id)
}
func (m *mockUserServicer) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (domain.User, error) {
	return m.updateProfile(ctx, id, update)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

// mockWatcher is a test double for handler.Watcher.
type mockWatcher struct {
	watchTrip func(ctx context.Context, tripID uuid.UUID) <-chan live.TripEvent
	watchUser func(ctx context.Context, userID uuid.UUID) <-chan live.UserEvent
}

func (m *mockWatcher) WatchTrip(ctx context.Context, tripID uuid.UUID) <-chan live.TripEvent {
	return m.watchTrip(ctx, tripID)
}
func (m *mockWatcher) WatchUser(ctx context.Context, userID uuid.UUID) <-chan live.UserEvent {
	return m.watchUser(ctx, userID)
}

var _ handler.Watcher = (*mockWatcher)(nil)

// ---- harness ---------------------------------------------------------------

// testUser is the authenticated identity every harness request carries.
var testUser = uuid.New()

// acceptAll verifies any token as testUser, standing in for the real
// TokenIssuer so handler tests need no JWT plumbing.
type acceptAll struct{}

func (acceptAll) VerifyAccess(string) (uuid.UUID, error) { return testUser, nil }

// newTestRouter wires a Server exactly the way main.go does, with the auth
// middleware resolving every request to testUser.
func newTestRouter(trips handler.TripServicer, users handler.UserServicer, watcher handler.Watcher) http.Handler {
	srv := handler.NewServer(trips, users, watcher, []byte("openapi: 3.0.3\n"))
	return srv.Routes(auth.Middleware(acceptAll{}))
}

// rejectAll fails every token, as the real verifier does for missing ones.
type rejectAll struct{}

func (rejectAll) VerifyAccess(string) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrInvalidCredentials
}

// newRejectingRouter builds a router whose auth middleware rejects every
// request, for exercising the 401 path.
func newRejectingRouter(trips handler.TripServicer) http.Handler {
	srv := handler.NewServer(trips, nil, nil, nil)
	return srv.Routes(auth.Middleware(rejectAll{}))
}

// doJSON performs a request with an optional JSON body against the router
// and returns the recorder.
func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeResponse unmarshals the recorder body into v.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
