package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a profile record, keyed by the same identity that owns trips.
// PasswordHash never leaves the backend.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}
