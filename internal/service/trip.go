// Package service contains the business logic for the Tripfolio backend.
// Services validate inputs, enforce business rules and ownership, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
	"github.com/tripfolio/tripfolio/backend/internal/repo"
)

// TripService implements business logic for trip operations. Every method is
// scoped to the calling owner: a trip that exists but belongs to someone else
// is reported as not found, never as forbidden, so trip IDs leak nothing.
//
// Ownership checks are read-then-act, which is safe because a trip's owner is
// fixed at creation and never changes.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip owned by owner. The trip starts
// empty: stages and accommodations are always populated through the append
// operations afterwards.
func (s *TripService) Create(ctx context.Context, owner uuid.UUID, meta domain.TripMetadata) (domain.Trip, error) {
	if err := validateTripMetadata(meta); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		Name:           meta.Name,
		StartDate:      meta.StartDate,
		EndDate:        meta.EndDate,
		Owner:          owner,
		Destinations:   dedupeDestinations(meta.Destinations),
		Notes:          meta.Notes,
		Stages:         []domain.Stage{},
		Accommodations: []domain.Accommodation{},
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip, scoped to owner.
func (s *TripService) GetByID(ctx context.Context, owner, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if trip.Owner != owner {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// ListByOwner returns one page of the owner's trips, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListByOwner(ctx, owner, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListByOwner: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// UpdateMetadata validates and applies a partial update of the trip's scalar
// fields. The embedded child collections are never touched.
func (s *TripService) UpdateMetadata(ctx context.Context, owner, tripID uuid.UUID, meta domain.TripMetadata) (domain.Trip, error) {
	if err := validateTripMetadata(meta); err != nil {
		return domain.Trip{}, err
	}
	if _, err := s.GetByID(ctx, owner, tripID); err != nil {
		return domain.Trip{}, err
	}

	meta.Destinations = dedupeDestinations(meta.Destinations)
	if err := s.repo.UpdateMetadata(ctx, tripID, meta); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateMetadata: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateMetadata: %w", err)
	}
	return updated, nil
}

// Delete removes the trip document and every embedded child with it.
// Idempotent: deleting a trip that is already gone succeeds.
func (s *TripService) Delete(ctx context.Context, owner, tripID uuid.UUID) error {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if trip.Owner != owner {
		return fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AppendStage validates the stage, assigns it a fresh ID if the caller did
// not supply one, and issues the atomic append. The append primitive never
// rewrites the rest of the collection, so stages added concurrently from
// other sessions are preserved.
func (s *TripService) AppendStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error) {
	if _, err := s.GetByID(ctx, owner, tripID); err != nil {
		return domain.Stage{}, err
	}
	if err := validateStage(stage); err != nil {
		return domain.Stage{}, err
	}
	if stage.ID == "" {
		stage.ID = uuid.NewString()
	}

	if err := s.repo.AppendStage(ctx, tripID, stage); err != nil {
		return domain.Stage{}, fmt.Errorf("service.TripService.AppendStage: %w", err)
	}
	return stage, nil
}

// ReplaceStage swaps the element with the matching ID inside a copy of the
// current collection and writes the whole field back. Last writer wins at
// the field level: a concurrent edit of a different stage in the same
// collection can be overwritten. Single-session editing is assumed.
func (s *TripService) ReplaceStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) (domain.Stage, error) {
	trip, err := s.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.Stage{}, err
	}
	if err := validateStage(stage); err != nil {
		return domain.Stage{}, err
	}

	replaced := false
	stages := make([]domain.Stage, len(trip.Stages))
	for i, existing := range trip.Stages {
		if existing.ID == stage.ID {
			stages[i] = stage
			replaced = true
		} else {
			stages[i] = existing
		}
	}
	if !replaced {
		return domain.Stage{}, fmt.Errorf("service.TripService.ReplaceStage: stage %s: %w", stage.ID, domain.ErrNotFound)
	}

	if err := s.repo.SetStages(ctx, tripID, stages); err != nil {
		return domain.Stage{}, fmt.Errorf("service.TripService.ReplaceStage: %w", err)
	}
	return stage, nil
}

// RemoveStage removes the element structurally equal to the given value.
// The caller must pass the precise currently-known stage, not just its ID:
// a value that differs in any field — nested location included — removes
// nothing and reports success. That equality-miss no-op is the documented
// contract of the remove primitive.
func (s *TripService) RemoveStage(ctx context.Context, owner, tripID uuid.UUID, stage domain.Stage) error {
	if _, err := s.GetByID(ctx, owner, tripID); err != nil {
		return err
	}
	if err := s.repo.RemoveStage(ctx, tripID, stage); err != nil {
		return fmt.Errorf("service.TripService.RemoveStage: %w", err)
	}
	return nil
}

// AppendAccommodation mirrors AppendStage for accommodations.
func (s *TripService) AppendAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error) {
	if _, err := s.GetByID(ctx, owner, tripID); err != nil {
		return domain.Accommodation{}, err
	}
	if err := validateAccommodation(acc); err != nil {
		return domain.Accommodation{}, err
	}
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}

	if err := s.repo.AppendAccommodation(ctx, tripID, acc); err != nil {
		return domain.Accommodation{}, fmt.Errorf("service.TripService.AppendAccommodation: %w", err)
	}
	return acc, nil
}

// ReplaceAccommodation mirrors ReplaceStage, including its last-writer-wins
// weakness.
func (s *TripService) ReplaceAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) (domain.Accommodation, error) {
	trip, err := s.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.Accommodation{}, err
	}
	if err := validateAccommodation(acc); err != nil {
		return domain.Accommodation{}, err
	}

	replaced := false
	accs := make([]domain.Accommodation, len(trip.Accommodations))
	for i, existing := range trip.Accommodations {
		if existing.ID != "" && existing.ID == acc.ID {
			accs[i] = acc
			replaced = true
		} else {
			accs[i] = existing
		}
	}
	if !replaced {
		return domain.Accommodation{}, fmt.Errorf("service.TripService.ReplaceAccommodation: accommodation %s: %w", acc.ID, domain.ErrNotFound)
	}

	if err := s.repo.SetAccommodations(ctx, tripID, accs); err != nil {
		return domain.Accommodation{}, fmt.Errorf("service.TripService.ReplaceAccommodation: %w", err)
	}
	return acc, nil
}

// RemoveAccommodation mirrors RemoveStage, including the exact-value
// equality-miss no-op.
func (s *TripService) RemoveAccommodation(ctx context.Context, owner, tripID uuid.UUID, acc domain.Accommodation) error {
	if _, err := s.GetByID(ctx, owner, tripID); err != nil {
		return err
	}
	if err := s.repo.RemoveAccommodation(ctx, tripID, acc); err != nil {
		return fmt.Errorf("service.TripService.RemoveAccommodation: %w", err)
	}
	return nil
}

// validateTripMetadata enforces the rules common to Create and UpdateMetadata.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - EndDate must not be before StartDate.
func validateTripMetadata(meta domain.TripMetadata) error {
	if strings.TrimSpace(meta.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if meta.StartDate.IsZero() || meta.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	}
	if meta.EndDate.Before(meta.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

// validateStage enforces the stage rules before any write is attempted.
// The destination label is deliberately not checked against the trip's
// destination list — children may carry labels the trip never declared.
func validateStage(stage domain.Stage) error {
	if strings.TrimSpace(stage.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !domain.ValidDay(stage.Date) {
		return fmt.Errorf("%w: date must be a valid YYYY-MM-DD day", domain.ErrValidation)
	}
	return nil
}

// validateAccommodation enforces the accommodation rules before any write.
func validateAccommodation(acc domain.Accommodation) error {
	if strings.TrimSpace(acc.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !domain.ValidDay(acc.StartDate) || !domain.ValidDay(acc.EndDate) {
		return fmt.Errorf("%w: start and end dates must be valid YYYY-MM-DD days", domain.ErrValidation)
	}
	if acc.EndDate < acc.StartDate {
		// Lexicographic comparison is chronological for zero-padded days.
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

// dedupeDestinations drops duplicate labels while preserving first-seen
// order. Labels are case-sensitive exact-match strings.
func dedupeDestinations(destinations []string) []string {
	out := make([]string, 0, len(destinations))
	seen := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// isNotFound reports whether err wraps domain.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
