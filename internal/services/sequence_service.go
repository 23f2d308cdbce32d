package services

import (
	"context"
	"fmt"

	"autolog/internal/repositories"
)

// Sequence names used for application-assigned IDs.
const (
	SequenceUser = "userId"
	SequenceCar  = "carId"
	SequenceNote = "noteId"
)

// SequenceService allocates integer IDs per named sequence.
type SequenceService struct {
	counters repositories.CounterRepository
}

// NewSequenceService creates a new SequenceService.
func NewSequenceService(counters repositories.CounterRepository) *SequenceService {
	return &SequenceService{counters: counters}
}

// Next returns the next value of sequence name. On error no value was
// issued and the caller must not create a record.
func (s *SequenceService) Next(ctx context.Context, name string) (int64, error) {
	id, err := s.counters.Next(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s: %w", name, err)
	}
	return id, nil
}
