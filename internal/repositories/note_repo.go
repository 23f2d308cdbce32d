package repositories

import (
	"context"

	"autolog/internal/models"
)

// NoteRepository defines the interface for car note data access.
type NoteRepository interface {
	Create(ctx context.Context, note *models.CarNote) error
	ListByCar(ctx context.Context, carID int64) ([]models.CarNote, error)
	Update(ctx context.Context, note *models.CarNote) error
	Delete(ctx context.Context, carID, noteID int64) error
	// DeleteByCar removes every note of carID and reports how many went.
	DeleteByCar(ctx context.Context, carID int64) (int64, error)
}
