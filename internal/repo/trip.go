// Package repo contains all database access logic for the Tripfolio backend.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
//
// Trips are stored as documents: one row per trip, with the stage and
// accommodation collections embedded as jsonb array columns. The three child
// mutation primitives mirror the document-store contract this system was
// built around:
//
//   - append is an atomic server-side jsonb concatenation, safe under
//     concurrent appends from other sessions;
//   - remove filters out elements structurally equal to the given value in a
//     single UPDATE — a value that differs in any field removes nothing;
//   - replace writes the whole field from the caller's collection snapshot,
//     last-writer-wins.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for trip documents.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip document by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists and
	// domain.ErrDecode if a stored child collection is malformed.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns the given page of one user's trips ordered by
	// created_at descending, plus the total trip count for that user.
	ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// UpdateMetadata overwrites the top-level scalar fields of a trip,
	// leaving the embedded child collections untouched. Updating a missing
	// trip is a silent no-op: callers must not rely on an update failing to
	// detect deletion.
	UpdateMetadata(ctx context.Context, id uuid.UUID, meta domain.TripMetadata) error

	// AppendStage atomically appends one stage to the trip's embedded
	// collection. The write never touches the rest of the document, so
	// concurrent appends from other sessions are never lost.
	// Returns domain.ErrNotFound if the trip does not exist.
	AppendStage(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error

	// SetStages overwrites the whole stage collection with the given slice.
	// This is the replace primitive: last writer wins at the field level.
	// Returns domain.ErrNotFound if the trip does not exist.
	SetStages(ctx context.Context, tripID uuid.UUID, stages []domain.Stage) error

	// RemoveStage removes every element structurally equal to the given
	// stage from the trip's collection. A stage that differs from the stored
	// value in any field removes nothing — that is not an error.
	// Returns domain.ErrNotFound if the trip does not exist.
	RemoveStage(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error

	// AppendAccommodation, SetAccommodations, and RemoveAccommodation mirror
	// the stage primitives for the accommodation collection.
	AppendAccommodation(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error
	SetAccommodations(ctx context.Context, tripID uuid.UUID, accs []domain.Accommodation) error
	RemoveAccommodation(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error

	// Delete removes a trip document and, with it, every embedded child.
	// Deleting an absent trip succeeds: delete is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner, name, start_date, end_date, notes, destinations, stages, accommodations, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner, name, start_date, end_date, notes, destinations, stages, accommodations)
		VALUES (@owner, @name, @start_date, @end_date, @notes, @destinations, @stages, @accommodations)
		RETURNING ` + tripColumns

	destinations, err := marshalJSON(trip.Destinations)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: encode destinations: %w", err)
	}
	stages, err := marshalJSON(trip.Stages)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: encode stages: %w", err)
	}
	accommodations, err := marshalJSON(trip.Accommodations)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: encode accommodations: %w", err)
	}

	args := pgx.NamedArgs{
		"owner":          trip.Owner,
		"name":           trip.Name,
		"start_date":     trip.StartDate,
		"end_date":       trip.EndDate,
		"notes":          trip.Notes,
		"destinations":   destinations,
		"stages":         stages,
		"accommodations": accommodations,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip document by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns one page of a user's trips, newest first.
func (r *pgTripRepo) ListByOwner(ctx context.Context, owner uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner = @owner
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"owner":  owner,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	var total int64
	const countQ = `SELECT count(*) FROM trips WHERE owner = @owner`
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"owner": owner}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: count: %w", err)
	}

	return trips, total, nil
}

// UpdateMetadata overwrites the scalar fields of a trip.
// A missing trip is a silent no-op, matching document-store update semantics.
func (r *pgTripRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, meta domain.TripMetadata) error {
	const q = `
		UPDATE trips
		SET name         = @name,
		    start_date   = @start_date,
		    end_date     = @end_date,
		    notes        = @notes,
		    destinations = @destinations,
		    updated_at   = now()
		WHERE id = @id`

	destinations, err := marshalJSON(meta.Destinations)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.UpdateMetadata: encode destinations: %w", err)
	}

	_, err = r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":           id,
		"name":         meta.Name,
		"start_date":   meta.StartDate,
		"end_date":     meta.EndDate,
		"notes":        meta.Notes,
		"destinations": destinations,
	})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.UpdateMetadata: %w", err)
	}
	return nil
}

// AppendStage atomically appends one stage to the embedded collection.
// Concatenating a jsonb object onto a jsonb array appends it as an element,
// entirely server-side, so a stale local snapshot can never drop concurrent
// insertions from other sessions.
func (r *pgTripRepo) AppendStage(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error {
	return r.appendElement(ctx, "stages", tripID, stage, "AppendStage")
}

// SetStages overwrites the whole stage collection.
func (r *pgTripRepo) SetStages(ctx context.Context, tripID uuid.UUID, stages []domain.Stage) error {
	return r.setCollection(ctx, "stages", tripID, stages, "SetStages")
}

// RemoveStage removes elements structurally equal to the given stage.
func (r *pgTripRepo) RemoveStage(ctx context.Context, tripID uuid.UUID, stage domain.Stage) error {
	return r.removeElement(ctx, "stages", tripID, stage, "RemoveStage")
}

// AppendAccommodation atomically appends one accommodation.
func (r *pgTripRepo) AppendAccommodation(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error {
	return r.appendElement(ctx, "accommodations", tripID, acc, "AppendAccommodation")
}

// SetAccommodations overwrites the whole accommodation collection.
func (r *pgTripRepo) SetAccommodations(ctx context.Context, tripID uuid.UUID, accs []domain.Accommodation) error {
	return r.setCollection(ctx, "accommodations", tripID, accs, "SetAccommodations")
}

// RemoveAccommodation removes elements structurally equal to the given accommodation.
func (r *pgTripRepo) RemoveAccommodation(ctx context.Context, tripID uuid.UUID, acc domain.Accommodation) error {
	return r.removeElement(ctx, "accommodations", tripID, acc, "RemoveAccommodation")
}

// Delete removes a trip document by primary key. Idempotent: deleting an
// already-absent trip is a success, matching document-store delete semantics.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

// appendElement issues the atomic array-append write for one child column.
// column is one of the fixed identifiers "stages" or "accommodations" and is
// interpolated, never user input.
func (r *pgTripRepo) appendElement(ctx context.Context, column string, tripID uuid.UUID, elem any, op string) error {
	q := fmt.Sprintf(`
		UPDATE trips
		SET %[1]s = %[1]s || @elem::jsonb,
		    updated_at = now()
		WHERE id = @id`, column)

	encoded, err := json.Marshal(elem)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.%s: encode: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "elem": encoded})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// setCollection overwrites one child column with the given slice.
func (r *pgTripRepo) setCollection(ctx context.Context, column string, tripID uuid.UUID, elems any, op string) error {
	q := fmt.Sprintf(`
		UPDATE trips
		SET %s = @elems::jsonb,
		    updated_at = now()
		WHERE id = @id`, column)

	encoded, err := marshalJSON(elems)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.%s: encode: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "elems": encoded})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// removeElement rebuilds one child column without the elements structurally
// equal to elem, in a single UPDATE. jsonb equality compares values, not
// textual representation, so key order does not matter but every field does:
// a value that differs anywhere from the stored element removes nothing.
// WITH ORDINALITY pins the surviving elements to their original order.
func (r *pgTripRepo) removeElement(ctx context.Context, column string, tripID uuid.UUID, elem any, op string) error {
	q := fmt.Sprintf(`
		UPDATE trips
		SET %[1]s = (
		        SELECT COALESCE(jsonb_agg(t.e ORDER BY t.ord), '[]'::jsonb)
		        FROM jsonb_array_elements(%[1]s) WITH ORDINALITY AS t(e, ord)
		        WHERE t.e <> @elem::jsonb
		    ),
		    updated_at = now()
		WHERE id = @id`, column)

	encoded, err := json.Marshal(elem)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.%s: encode: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "elem": encoded})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip, decoding the jsonb
// child collections. A malformed collection fails the whole trip with
// domain.ErrDecode — downstream grouping assumes well-formed children, so
// there is no partial recovery.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t              domain.Trip
		id             pgtype.UUID
		owner          pgtype.UUID
		startDate      pgtype.Date
		endDate        pgtype.Date
		destinations   []byte
		stages         []byte
		accommodations []byte
	)

	err := s.Scan(&id, &owner, &t.Name, &startDate, &endDate, &t.Notes,
		&destinations, &stages, &accommodations, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Owner = uuid.UUID(owner.Bytes)
	t.StartDate = startDate.Time
	t.EndDate = endDate.Time

	if err := json.Unmarshal(destinations, &t.Destinations); err != nil {
		return domain.Trip{}, fmt.Errorf("%w: destinations: %v", domain.ErrDecode, err)
	}
	if err := json.Unmarshal(stages, &t.Stages); err != nil {
		return domain.Trip{}, fmt.Errorf("%w: stages: %v", domain.ErrDecode, err)
	}
	if err := json.Unmarshal(accommodations, &t.Accommodations); err != nil {
		return domain.Trip{}, fmt.Errorf("%w: accommodations: %v", domain.ErrDecode, err)
	}

	return t, nil
}

// marshalJSON encodes a slice for a jsonb column, mapping nil slices to the
// empty jsonb array so stored documents never hold JSON null collections.
func marshalJSON(v any) ([]byte, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(encoded) == "null" {
		return []byte("[]"), nil
	}
	return encoded, nil
}
