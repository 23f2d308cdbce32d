package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autolog/internal/models"

	"gorm.io/gorm"
)

// GORMCarRepository is a GORM implementation of CarRepository.
type GORMCarRepository struct {
	db *gorm.DB
}

// NewGORMCarRepository creates a new instance of GORMCarRepository.
func NewGORMCarRepository(db *gorm.DB) *GORMCarRepository {
	return &GORMCarRepository{
		db: db,
	}
}

// Create inserts a car whose CarID has already been allocated.
func (r *GORMCarRepository) Create(ctx context.Context, car *models.Car) error {
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetByID retrieves a single car by its ID.
func (r *GORMCarRepository) GetByID(ctx context.Context, carID int64) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "car_id = ?", carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get car by ID %d: %w", carID, err)
	}
	return &car, nil
}

// Search matches term as a case-insensitive prefix against the text and
// numeric-as-text columns of the user's cars.
func (r *GORMCarRepository) Search(ctx context.Context, userID int64, term string) ([]models.Car, error) {
	pattern := likePrefix(term)
	cars := []models.Car{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(
			r.db.Where("LOWER(make) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(model) LIKE ? ESCAPE '\\'", pattern).
				Or("CAST(year AS TEXT) LIKE ? ESCAPE '\\'", pattern).
				Or("LOWER(color) LIKE ? ESCAPE '\\'", pattern).
				Or("CAST(odometer AS TEXT) LIKE ? ESCAPE '\\'", pattern),
		).
		Order("created_at DESC").
		Find(&cars).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search cars for user %d: %w", userID, err)
	}
	return cars, nil
}

// Update rewrites the mutable fields of an existing car.
func (r *GORMCarRepository) Update(ctx context.Context, car *models.Car) error {
	res := r.db.WithContext(ctx).Model(&models.Car{}).
		Where("car_id = ?", car.CarID).
		Updates(map[string]any{
			"make":       car.Make,
			"model":      car.Model,
			"year":       car.Year,
			"odometer":   car.Odometer,
			"color":      car.Color,
			"created_at": car.CreatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update car: %w", res.Error)
	}
	// postgres and sqlite count matched rows, not changed ones.
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the car owned by userID.
func (r *GORMCarRepository) Delete(ctx context.Context, userID, carID int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Car{}, "car_id = ? AND user_id = ?", carID, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete car: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// likePrefix lowercases term, escapes LIKE wildcards and appends '%'.
func likePrefix(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return escaped + "%"
}
