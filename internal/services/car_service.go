package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autolog/internal/models"
	"autolog/internal/repositories"

	"github.com/charmbracelet/log"
)

// CarService handles business logic for cars.
type CarService struct {
	cars   repositories.CarRepository
	notes  repositories.NoteRepository
	seq    *SequenceService
	logger *log.Logger

	// Now stamps CreatedAt on add and update.
	Now func() time.Time
}

// NewCarService creates a new CarService.
func NewCarService(cars repositories.CarRepository, notes repositories.NoteRepository, seq *SequenceService, logger *log.Logger) *CarService {
	return &CarService{
		cars:   cars,
		notes:  notes,
		seq:    seq,
		logger: logger,
		Now:    time.Now,
	}
}

// Add assigns the car an ID, stamps it and stores it.
func (s *CarService) Add(ctx context.Context, car *models.Car) (int64, error) {
	carID, err := s.seq.Next(ctx, SequenceCar)
	if err != nil {
		return 0, err
	}
	car.CarID = carID
	car.CreatedAt = s.Now().UTC()

	if err := s.cars.Create(ctx, car); err != nil {
		return 0, fmt.Errorf("failed to add car: %w", err)
	}
	return carID, nil
}

// Search lists the user's cars matching term, newest first. Surrounding
// whitespace is ignored and an empty term lists every car.
func (s *CarService) Search(ctx context.Context, userID int64, term string) ([]models.Car, error) {
	cars, err := s.cars.Search(ctx, userID, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search cars: %w", err)
	}
	if cars == nil {
		cars = []models.Car{}
	}
	return cars, nil
}

func (s *CarService) Get(ctx context.Context, carID int64) (*models.Car, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return car, nil
}

// Update overwrites the car's fields and refreshes CreatedAt.
func (s *CarService) Update(ctx context.Context, car *models.Car) error {
	car.CreatedAt = s.Now().UTC()
	if err := s.cars.Update(ctx, car); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCarNotFound
		}
		return fmt.Errorf("failed to update car: %w", err)
	}
	return nil
}

// Delete removes the car's notes and then the car owned by userID. The notes
// go first even when the car turns out not to exist, and a failure after the
// first step leaves the car in place, so retrying is safe.
func (s *CarService) Delete(ctx context.Context, userID, carID int64) error {
	removed, err := s.notes.DeleteByCar(ctx, carID)
	if err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}

	if err := s.cars.Delete(ctx, userID, carID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCarNotFound
		}
		return fmt.Errorf("failed to delete car: %w", err)
	}

	s.logger.Debug("car deleted", "car_id", carID, "notes", removed)
	return nil
}
