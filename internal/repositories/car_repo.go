package repositories

import (
	"context"

	"autolog/internal/models"
)

// CarRepository defines the interface for car data access.
type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, carID int64) (*models.Car, error)
	// Search returns the user's cars where term is a case-insensitive prefix
	// of make, model, year, color or odometer, newest first.
	Search(ctx context.Context, userID int64, term string) ([]models.Car, error)
	// Update replaces the mutable fields and CreatedAt of the car matching
	// car.CarID. It returns ErrNotFound when no car matched.
	Update(ctx context.Context, car *models.Car) error
	Delete(ctx context.Context, userID, carID int64) error
}
