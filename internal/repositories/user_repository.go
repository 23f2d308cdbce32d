package repositories

import (
	"context"

	"autolog/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// SetVerifiedByToken marks the user holding token as verified and clears
	// the token in one write. It returns ErrNotFound when no user holds it.
	SetVerifiedByToken(ctx context.Context, token string) error
	// SetResetToken overwrites any previous reset token for email.
	SetResetToken(ctx context.Context, email, token string, expiresAtMillis int64) error
	// ConsumeResetToken replaces the password and clears the reset token in
	// one write, provided the token exists and has not expired at nowMillis.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, nowMillis int64) error
	UpdateName(ctx context.Context, userID int64, firstName, lastName string) error
}
