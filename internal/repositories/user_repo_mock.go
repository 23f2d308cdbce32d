package repositories

import (
	"context"
	"sync"

	"autolog/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[int64]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[int64]models.User),
	}
}

func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	r.users[user.UserID] = *user
	return nil
}

func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MockUserRepository) SetVerifiedByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == "" {
		return ErrNotFound
	}
	for id, u := range r.users {
		if u.VerificationToken == token {
			u.IsVerified = true
			u.VerificationToken = ""
			r.users[id] = u
			return nil
		}
	}
	return ErrNotFound
}

func (r *MockUserRepository) SetResetToken(_ context.Context, email, token string, expiresAtMillis int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.Email == email {
			u.ResetToken = token
			u.ResetTokenExpiration = expiresAtMillis
			r.users[id] = u
			return nil
		}
	}
	return ErrNotFound
}

func (r *MockUserRepository) ConsumeResetToken(_ context.Context, token, passwordHash string, nowMillis int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == "" {
		return ErrNotFound
	}
	for id, u := range r.users {
		if u.ResetToken == token && u.ResetTokenExpiration >= nowMillis {
			u.Password = passwordHash
			u.ResetToken = ""
			u.ResetTokenExpiration = 0
			r.users[id] = u
			return nil
		}
	}
	return ErrNotFound
}

func (r *MockUserRepository) UpdateName(_ context.Context, userID int64, firstName, lastName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	r.users[userID] = u
	return nil
}
