package services

import (
	"context"
	"errors"
	"fmt"

	"autolog/internal/models"
	"autolog/internal/repositories"
)

// NoteService handles business logic for car notes.
type NoteService struct {
	notes repositories.NoteRepository
	seq   *SequenceService
}

func NewNoteService(notes repositories.NoteRepository, seq *SequenceService) *NoteService {
	return &NoteService{notes: notes, seq: seq}
}

// Add assigns the note an ID and stores it.
func (s *NoteService) Add(ctx context.Context, note *models.CarNote) (int64, error) {
	noteID, err := s.seq.Next(ctx, SequenceNote)
	if err != nil {
		return 0, err
	}
	note.NoteID = noteID

	if err := s.notes.Create(ctx, note); err != nil {
		return 0, fmt.Errorf("failed to add note: %w", err)
	}
	return noteID, nil
}

func (s *NoteService) List(ctx context.Context, carID int64) ([]models.CarNote, error) {
	notes, err := s.notes.ListByCar(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	if notes == nil {
		notes = []models.CarNote{}
	}
	return notes, nil
}

func (s *NoteService) Update(ctx context.Context, note *models.CarNote) error {
	if err := s.notes.Update(ctx, note); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (s *NoteService) Delete(ctx context.Context, carID, noteID int64) error {
	if err := s.notes.Delete(ctx, carID, noteID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
