package repositories

import (
	"context"
	"sort"
	"sync"

	"autolog/internal/models"
)

type noteKey struct {
	carID  int64
	noteID int64
}

// MockNoteRepository is an in-memory implementation of NoteRepository.
type MockNoteRepository struct {
	notes map[noteKey]models.CarNote
	mu    sync.RWMutex
}

// NewMockNoteRepository creates a new instance of MockNoteRepository.
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		notes: make(map[noteKey]models.CarNote),
	}
}

func (r *MockNoteRepository) Create(_ context.Context, note *models.CarNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes[noteKey{note.CarID, note.NoteID}] = *note
	return nil
}

func (r *MockNoteRepository) ListByCar(_ context.Context, carID int64) ([]models.CarNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := []models.CarNote{}
	for k, n := range r.notes {
		if k.carID == carID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].NoteID < notes[j].NoteID })
	return notes, nil
}

func (r *MockNoteRepository) Update(_ context.Context, note *models.CarNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := noteKey{note.CarID, note.NoteID}
	if _, ok := r.notes[k]; !ok {
		return ErrNotFound
	}
	r.notes[k] = *note
	return nil
}

func (r *MockNoteRepository) Delete(_ context.Context, carID, noteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := noteKey{carID, noteID}
	if _, ok := r.notes[k]; !ok {
		return ErrNotFound
	}
	delete(r.notes, k)
	return nil
}

func (r *MockNoteRepository) DeleteByCar(_ context.Context, carID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k := range r.notes {
		if k.carID == carID {
			delete(r.notes, k)
			n++
		}
	}
	return n, nil
}
