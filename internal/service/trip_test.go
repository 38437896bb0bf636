package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
	"github.com/tripfolio/tripfolio/backend/internal/repo"
	"github.com/tripfolio/tripfolio/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
type mockTripRepo struct {
	create              func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID             func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByOwner         func(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	updateMetadata      func(ctx context.Context, id uuid.UUID, meta domain.TripMetadata) error
	appendStage         func(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error
	setStages           func(ctx context.Context, tripID uuid.UUID, stages []domain.Stage) error
	removeStage         func(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error
	appendAccommodation func(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error
	setAccommodations   func(ctx context.Context, tripID uuid.UUID, accs []domain.Accommodation) error
	removeAccommodation func(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error
	delete              func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByOwner(ctx, owner, p)
}
func (m *mockTripRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, meta domain.TripMetadata) error {
	return m.updateMetadata(ctx, id, meta)
}
func (m *mockTripRepo) AppendStage(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error {
	return m.appendStage(ctx, tripID, stage)
}
func (m *mockTripRepo) SetStages(ctx context.Context, tripID uuid.UUID, stages []domain.Stage) error {
	return m.setStages(ctx, tripID, stages)
}
func (m *mockTripRepo) RemoveStage(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error {
	return m.removeStage(ctx, tripID, stage)
}
func (m *mockTripRepo) AppendAccommodation(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error {
	return m.appendAccommodation(ctx, tripID, acc)
}
func (m *mockTripRepo) SetAccommodations(ctx context.Context, tripID uuid.UUID, accs []domain.Accommodation) error {
	return m.setAccommodations(ctx, tripID, accs)
}
func (m *mockTripRepo) RemoveAccommodation(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error {
	return m.removeAccommodation(ctx, tripID, acc)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

var (
	testOwner = uuid.New()
	testTrip  = uuid.New()
)

func validMetadata() domain.TripMetadata {
	return domain.TripMetadata{
		Name:         "Tuscany by Train",
		StartDate:    time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		Destinations: []string{"Florence", "Siena"},
	}
}

func ownedTrip() domain.Trip {
	return domain.Trip{
		ID:             testTrip,
		Name:           "Tuscany by Train",
		StartDate:      time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		Owner:          testOwner,
		Destinations:   []string{"Florence", "Siena"},
		Stages:         []domain.Stage{},
		Accommodations: []domain.Accommodation{},
	}
}

func validStage() domain.Stage {
	return domain.Stage{
		Name:        "Uffizi Gallery",
		Destination: "Florence",
		Location:    domain.GeoPoint{Lat: 43.7678, Lng: 11.2553, Address: "Piazzale degli Uffizi"},
		Date:        "2026-05-11",
	}
}

func validAccommodation() domain.Accommodation {
	return domain.Accommodation{
		Name:        "Hotel Lungarno",
		Destination: "Florence",
		Location:    domain.GeoPoint{Lat: 43.7679, Lng: 11.2480, Address: "Borgo San Jacopo 14"},
		StartDate:   "2026-05-10",
		EndDate:     "2026-05-14",
	}
}

// ownedRepo returns a repo whose GetByID serves the canonical owned trip —
// the starting point for most child-mutation tests.
func ownedRepo() *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return ownedTrip(), nil
		},
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	var persisted domain.Trip
	r := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			persisted = trip
			return trip, nil
		},
	}
	svc := service.NewTripService(r)

	got, err := svc.Create(context.Background(), testOwner, validMetadata())

	require.NoError(t, err)
	assert.Equal(t, "Tuscany by Train", got.Name)
	assert.Equal(t, testOwner, persisted.Owner)
	// New trips always start with empty, non-nil collections.
	assert.NotNil(t, persisted.Stages)
	assert.Empty(t, persisted.Stages)
	assert.NotNil(t, persisted.Accommodations)
	assert.Empty(t, persisted.Accommodations)
}

func TestTripService_Create_MissingName(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{})

	meta := validMetadata()
	meta.Name = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), testOwner, meta)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_EndDateBeforeStartDate(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{})

	meta := validMetadata()
	meta.EndDate = meta.StartDate.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), testOwner, meta)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_EndDateEqualToStartDate(t *testing.T) {
	r := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(r)

	meta := validMetadata()
	meta.EndDate = meta.StartDate // a one-day trip is valid

	_, err := svc.Create(context.Background(), testOwner, meta)

	assert.NoError(t, err)
}

func TestTripService_Create_DedupesDestinations(t *testing.T) {
	var persisted domain.Trip
	r := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			persisted = trip
			return trip, nil
		},
	}
	svc := service.NewTripService(r)

	meta := validMetadata()
	meta.Destinations = []string{"Florence", "Siena", "Florence", "Pisa", "Siena"}

	_, err := svc.Create(context.Background(), testOwner, meta)

	require.NoError(t, err)
	// Duplicates dropped, first-seen order preserved.
	assert.Equal(t, []string{"Florence", "Siena", "Pisa"}, persisted.Destinations)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), testOwner, validMetadata())

	// The service should propagate repo errors unchanged.
	assert.ErrorIs(t, err, repoErr)
}

// ---- GetByID / ownership tests ----------------------------------------------

func TestTripService_GetByID_Found(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	got, err := svc.GetByID(context.Background(), testOwner, testTrip)

	require.NoError(t, err)
	assert.Equal(t, testTrip, got.ID)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.GetByID(context.Background(), testOwner, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_GetByID_ForeignOwnerLooksLikeNotFound(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	// Someone else's trip must be indistinguishable from an absent one.
	_, err := svc.GetByID(context.Background(), uuid.New(), testTrip)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListByOwner tests -------------------------------------------------------

func TestTripService_ListByOwner(t *testing.T) {
	r := &mockTripRepo{
		listByOwner: func(_ context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			assert.Equal(t, testOwner, owner)
			return []domain.Trip{ownedTrip(), ownedTrip()}, 2, nil
		},
	}
	svc := service.NewTripService(r)

	got, total, err := svc.ListByOwner(context.Background(), testOwner, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.EqualValues(t, 2, total)
}

func TestTripService_ListByOwner_Empty(t *testing.T) {
	r := &mockTripRepo{
		listByOwner: func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	}
	svc := service.NewTripService(r)

	got, _, err := svc.ListByOwner(context.Background(), testOwner, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	// Should return an empty slice, not nil — callers can safely range over it.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- UpdateMetadata tests ----------------------------------------------------

func TestTripService_UpdateMetadata_Valid(t *testing.T) {
	r := ownedRepo()
	var written domain.TripMetadata
	r.updateMetadata = func(_ context.Context, id uuid.UUID, meta domain.TripMetadata) error {
		assert.Equal(t, testTrip, id)
		written = meta
		return nil
	}
	svc := service.NewTripService(r)

	meta := validMetadata()
	meta.Name = "Tuscany, Extended"

	got, err := svc.UpdateMetadata(context.Background(), testOwner, testTrip, meta)

	require.NoError(t, err)
	assert.Equal(t, "Tuscany, Extended", written.Name)
	// The returned trip is the re-fetched document, not the input.
	assert.Equal(t, testTrip, got.ID)
}

func TestTripService_UpdateMetadata_ValidationBeforeOwnershipCheck(t *testing.T) {
	// GetByID must never be called when validation fails — the nil function
	// field would panic if it were.
	svc := service.NewTripService(&mockTripRepo{})

	meta := validMetadata()
	meta.Name = ""

	_, err := svc.UpdateMetadata(context.Background(), testOwner, testTrip, meta)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_UpdateMetadata_ForeignOwner(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	_, err := svc.UpdateMetadata(context.Background(), uuid.New(), testTrip, validMetadata())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete tests ------------------------------------------------------------

func TestTripService_Delete_OK(t *testing.T) {
	r := ownedRepo()
	deleted := false
	r.delete = func(_ context.Context, id uuid.UUID) error {
		deleted = true
		return nil
	}
	svc := service.NewTripService(r)

	err := svc.Delete(context.Background(), testOwner, testTrip)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTripService_Delete_AlreadyGoneSucceeds(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(r)

	// Deleting an absent trip is idempotent success, not an error.
	err := svc.Delete(context.Background(), testOwner, uuid.New())

	assert.NoError(t, err)
}

func TestTripService_Delete_ForeignOwner(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	err := svc.Delete(context.Background(), uuid.New(), testTrip)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- AppendStage tests -------------------------------------------------------

func TestTripService_AppendStage_GeneratesID(t *testing.T) {
	r := ownedRepo()
	var written domain.Stage
	r.appendStage = func(_ context.Context, _ uuid.UUID, stage domain.Stage) error {
		written = stage
		return nil
	}
	svc := service.NewTripService(r)

	got, err := svc.AppendStage(context.Background(), testOwner, testTrip, validStage())

	require.NoError(t, err)
	// The service assigns a fresh UUID when the caller supplies none, and
	// returns the stage exactly as written.
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, written, got)
	_, parseErr := uuid.Parse(got.ID)
	assert.NoError(t, parseErr)
}

func TestTripService_AppendStage_KeepsCallerID(t *testing.T) {
	r := ownedRepo()
	r.appendStage = func(_ context.Context, _ uuid.UUID, _ domain.Stage) error { return nil }
	svc := service.NewTripService(r)

	stage := validStage()
	stage.ID = "client-chosen-id"

	got, err := svc.AppendStage(context.Background(), testOwner, testTrip, stage)

	require.NoError(t, err)
	assert.Equal(t, "client-chosen-id", got.ID)
}

func TestTripService_AppendStage_InvalidDate(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	stage := validStage()
	stage.Date = "2026-5-11" // not zero-padded — rejected

	_, err := svc.AppendStage(context.Background(), testOwner, testTrip, stage)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_AppendStage_MissingName(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	stage := validStage()
	stage.Name = ""

	_, err := svc.AppendStage(context.Background(), testOwner, testTrip, stage)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_AppendStage_ForeignOwner(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	_, err := svc.AppendStage(context.Background(), uuid.New(), testTrip, validStage())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ReplaceStage tests ------------------------------------------------------

func TestTripService_ReplaceStage_SwapsMatchingElement(t *testing.T) {
	existing := validStage()
	existing.ID = "stage-1"
	other := validStage()
	other.ID = "stage-2"
	other.Name = "Ponte Vecchio"

	trip := ownedTrip()
	trip.Stages = []domain.Stage{existing, other}

	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
	}
	var written []domain.Stage
	r.setStages = func(_ context.Context, _ uuid.UUID, stages []domain.Stage) error {
		written = stages
		return nil
	}
	svc := service.NewTripService(r)

	updated := existing
	updated.Name = "Uffizi, morning slot"

	_, err := svc.ReplaceStage(context.Background(), testOwner, testTrip, updated)

	require.NoError(t, err)
	// The whole collection is written back: the edited element is swapped in
	// place, every other element is untouched, order is preserved.
	require.Len(t, written, 2)
	assert.Equal(t, "Uffizi, morning slot", written[0].Name)
	assert.Equal(t, other, written[1])
}

func TestTripService_ReplaceStage_UnknownID(t *testing.T) {
	trip := ownedTrip()
	trip.Stages = []domain.Stage{}
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(r)

	stage := validStage()
	stage.ID = "no-such-stage"

	_, err := svc.ReplaceStage(context.Background(), testOwner, testTrip, stage)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- RemoveStage tests -------------------------------------------------------

func TestTripService_RemoveStage_PassesExactValue(t *testing.T) {
	r := ownedRepo()
	var written domain.Stage
	r.removeStage = func(_ context.Context, _ uuid.UUID, stage domain.Stage) error {
		written = stage
		return nil
	}
	svc := service.NewTripService(r)

	stage := validStage()
	stage.ID = "stage-1"

	err := svc.RemoveStage(context.Background(), testOwner, testTrip, stage)

	require.NoError(t, err)
	// Remove is by structural value: the service forwards the element
	// verbatim, without normalizing or reducing it to an ID.
	assert.Equal(t, stage, written)
}

func TestTripService_RemoveStage_ForeignOwner(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	err := svc.RemoveStage(context.Background(), uuid.New(), testTrip, validStage())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Accommodation tests -----------------------------------------------------

func TestTripService_AppendAccommodation_GeneratesID(t *testing.T) {
	r := ownedRepo()
	r.appendAccommodation = func(_ context.Context, _ uuid.UUID, _ domain.Accommodation) error { return nil }
	svc := service.NewTripService(r)

	got, err := svc.AppendAccommodation(context.Background(), testOwner, testTrip, validAccommodation())

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
}

func TestTripService_AppendAccommodation_CheckOutBeforeCheckIn(t *testing.T) {
	svc := service.NewTripService(ownedRepo())

	acc := validAccommodation()
	acc.StartDate = "2026-05-14"
	acc.EndDate = "2026-05-10"

	_, err := svc.AppendAccommodation(context.Background(), testOwner, testTrip, acc)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_ReplaceAccommodation_SkipsLegacyRecordsWithoutID(t *testing.T) {
	// Legacy accommodations written without an ID can never match a replace
	// target, even when the incoming value's ID is also empty.
	legacy := validAccommodation() // no ID
	trip := ownedTrip()
	trip.Accommodations = []domain.Accommodation{legacy}

	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(r)

	_, err := svc.ReplaceAccommodation(context.Background(), testOwner, testTrip, validAccommodation())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_RemoveAccommodation_PassesExactValue(t *testing.T) {
	r := ownedRepo()
	var written domain.Accommodation
	r.removeAccommodation = func(_ context.Context, _ uuid.UUID, acc domain.Accommodation) error {
		written = acc
		return nil
	}
	svc := service.NewTripService(r)

	acc := validAccommodation()
	acc.ID = "acc-1"

	err := svc.RemoveAccommodation(context.Background(), testOwner, testTrip, acc)

	require.NoError(t, err)
	assert.Equal(t, acc, written)
}
