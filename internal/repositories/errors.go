package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup or conditional write matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a user insert collides with an existing email.
	ErrDuplicateEmail = errors.New("email already registered")
)
