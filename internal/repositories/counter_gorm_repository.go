package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GORMCounterRepository keeps sequence counters in the counters table.
type GORMCounterRepository struct {
	db *gorm.DB
}

// NewGORMCounterRepository creates a new instance of GORMCounterRepository.
func NewGORMCounterRepository(db *gorm.DB) *GORMCounterRepository {
	return &GORMCounterRepository{db: db}
}

// Next upserts the counter and returns the incremented value in a single
// statement, so the row lock serializes concurrent callers per name.
func (r *GORMCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`, name,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}
	if value == 0 {
		return 0, fmt.Errorf("failed to increment sequence %s: no value returned", name)
	}
	return value, nil
}
