package repositories

import (
	"context"
	"sync"
)

// MockCounterRepository is an in-memory implementation of CounterRepository.
type MockCounterRepository struct {
	values map[string]int64
	mu     sync.Mutex
}

// NewMockCounterRepository creates a new instance of MockCounterRepository.
func NewMockCounterRepository() *MockCounterRepository {
	return &MockCounterRepository{
		values: make(map[string]int64),
	}
}

// Next increments and returns the counter for name.
func (r *MockCounterRepository) Next(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[name]++
	return r.values[name], nil
}
