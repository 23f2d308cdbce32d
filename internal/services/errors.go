package services

import "errors"

// Business failures. Handlers report these as an error string with HTTP 200.
var (
	ErrEmailTaken         = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Email/Password combination incorrect")
	ErrInvalidVerifyToken = errors.New("Invalid, expired token or already verified.")
	ErrInvalidResetToken  = errors.New("Invalid or expired reset token")
	ErrNoSuchEmail        = errors.New("No user found with that email address")
	ErrUserNotFound       = errors.New("Failed to update name")
	ErrCarNotFound        = errors.New("Car not found")
	ErrNoteNotFound       = errors.New("Note not found")
)

// ErrMailDelivery wraps mail transport failures. Handlers report it as a
// server error.
var ErrMailDelivery = errors.New("Failed to send email")

// IsBusinessError reports whether err is an expected outcome rather than an
// infrastructure failure.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrEmailTaken,
		ErrInvalidCredentials,
		ErrInvalidVerifyToken,
		ErrInvalidResetToken,
		ErrNoSuchEmail,
		ErrUserNotFound,
		ErrCarNotFound,
		ErrNoteNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
