package repositories

import (
	"context"
	"errors"
	"fmt"

	"autolog/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

func (r *GORMUserRepository) SetVerifiedByToken(ctx context.Context, token string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_token = ? AND verification_token <> ''", token).
		Updates(map[string]any{
			"is_verified":        true,
			"verification_token": "",
		})
	if res.Error != nil {
		return fmt.Errorf("failed to verify user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMUserRepository) SetResetToken(ctx context.Context, email, token string, expiresAtMillis int64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"reset_token":            token,
			"reset_token_expiration": expiresAtMillis,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to store reset token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMUserRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, nowMillis int64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token = ? AND reset_token <> '' AND reset_token_expiration >= ?", token, nowMillis).
		Updates(map[string]any{
			"password":               passwordHash,
			"reset_token":            "",
			"reset_token_expiration": 0,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMUserRepository) UpdateName(ctx context.Context, userID int64, firstName, lastName string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update name: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
