package repositories

import (
	"context"
	"fmt"

	"autolog/internal/models"

	"gorm.io/gorm"
)

// GORMNoteRepository is a GORM implementation of NoteRepository.
type GORMNoteRepository struct {
	db *gorm.DB
}

// NewGORMNoteRepository creates a new instance of GORMNoteRepository.
func NewGORMNoteRepository(db *gorm.DB) *GORMNoteRepository {
	return &GORMNoteRepository{db: db}
}

func (r *GORMNoteRepository) Create(ctx context.Context, note *models.CarNote) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *GORMNoteRepository) ListByCar(ctx context.Context, carID int64) ([]models.CarNote, error) {
	notes := []models.CarNote{}
	if err := r.db.WithContext(ctx).Where("car_id = ?", carID).Order("note_id").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes for car %d: %w", carID, err)
	}
	return notes, nil
}

func (r *GORMNoteRepository) Update(ctx context.Context, note *models.CarNote) error {
	res := r.db.WithContext(ctx).Model(&models.CarNote{}).
		Where("car_id = ? AND note_id = ?", note.CarID, note.NoteID).
		Updates(map[string]any{
			"note":         note.Note,
			"type":         note.Type,
			"miles":        note.Miles,
			"date_created": note.DateCreated,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMNoteRepository) Delete(ctx context.Context, carID, noteID int64) error {
	res := r.db.WithContext(ctx).Delete(&models.CarNote{}, "car_id = ? AND note_id = ?", carID, noteID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GORMNoteRepository) DeleteByCar(ctx context.Context, carID int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.CarNote{}, "car_id = ?", carID)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete notes for car %d: %w", carID, res.Error)
	}
	return res.RowsAffected, nil
}
