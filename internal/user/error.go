package user

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// PgUniqueViolation is the Postgres error code for unique constraint
// violations, used to detect duplicate registrations.
const PgUniqueViolation = "23505"
