package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Validation always runs before any write is attempted.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDecode is returned when a stored trip or user document does not match
// the expected shape (e.g. malformed embedded stage). The whole document
// load fails; there is no partial recovery, since grouping and display
// assume well-formed children.
var ErrDecode = errors.New("decode error")

// ErrConflict is returned when a write collides with an existing record,
// e.g. registering an email address that is already taken.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidCredentials is returned by the login flow when the email is
// unknown or the password does not match. The two cases are deliberately
// indistinguishable. Handlers should map this to HTTP 401.
var ErrInvalidCredentials = errors.New("invalid credentials")
