// Package domain contains the core data types for the Tripfolio backend.
// This package has no dependencies beyond the uuid type and is imported by
// every other internal package (repo, live, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the aggregate root for one planned journey. It owns its stages
// and accommodations outright: children live embedded inside the trip
// document and have no existence of their own. All child mutation goes
// through the trip.
type Trip struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Owner          uuid.UUID       `json:"owner"` // set at creation, never mutated
	Destinations   []string        `json:"destinations"`
	Notes          string          `json:"notes,omitempty"`
	Stages         []Stage         `json:"stages"`
	Accommodations []Accommodation `json:"accommodations"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TripMetadata carries the top-level scalar fields of a trip for partial
// updates. It deliberately excludes Stages and Accommodations, which are
// only mutated through the dedicated append/replace/remove operations.
type TripMetadata struct {
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	Notes        string
	Destinations []string
}
