package repositories

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"autolog/internal/models"
)

// MockCarRepository is an in-memory implementation of CarRepository.
type MockCarRepository struct {
	cars map[int64]models.Car
	mu   sync.RWMutex
}

// NewMockCarRepository creates a new instance of MockCarRepository.
func NewMockCarRepository() *MockCarRepository {
	return &MockCarRepository{
		cars: make(map[int64]models.Car),
	}
}

// Create adds a new car.
func (r *MockCarRepository) Create(_ context.Context, car *models.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cars[car.CarID] = *car
	return nil
}

// GetByID returns a car by its ID.
func (r *MockCarRepository) GetByID(_ context.Context, carID int64) (*models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	car, ok := r.cars[carID]
	if !ok {
		return nil, ErrNotFound
	}
	return &car, nil
}

// Search returns the user's cars matching term, newest first.
func (r *MockCarRepository) Search(_ context.Context, userID int64, term string) ([]models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := strings.ToLower(term)
	results := []models.Car{}
	for _, car := range r.cars {
		if car.UserID == userID && carMatchesPrefix(car, prefix) {
			results = append(results, car)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

// Update modifies an existing car.
func (r *MockCarRepository) Update(_ context.Context, car *models.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.cars[car.CarID]
	if !ok {
		return ErrNotFound
	}
	existing.Make = car.Make
	existing.Model = car.Model
	existing.Year = car.Year
	existing.Odometer = car.Odometer
	existing.Color = car.Color
	existing.CreatedAt = car.CreatedAt
	r.cars[car.CarID] = existing
	return nil
}

// Delete removes a car owned by userID.
func (r *MockCarRepository) Delete(_ context.Context, userID, carID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	car, ok := r.cars[carID]
	if !ok || car.UserID != userID {
		return ErrNotFound
	}
	delete(r.cars, carID)
	return nil
}

func carMatchesPrefix(car models.Car, prefix string) bool {
	fields := []string{
		car.Make,
		car.Model,
		strconv.Itoa(car.Year),
		car.Color,
		strconv.Itoa(car.Odometer),
	}
	for _, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), prefix) {
			return true
		}
	}
	return false
}
