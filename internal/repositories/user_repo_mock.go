package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"contactbook/internal/apperrors"
	"contactbook/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
	}
	user := u
	return &user, nil
}

// UpdateToken writes the session-token slot.
func (r *MockUserRepository) UpdateToken(_ context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
	}
	u.Token = token
	r.users[id] = u
	return nil
}

// UpdateAvatar persists a new avatar URL.
func (r *MockUserRepository) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
	}
	u.AvatarURL = avatarURL
	r.users[id] = u
	return nil
}

// ConsumeVerificationToken verifies and clears the matching token.
func (r *MockUserRepository) ConsumeVerificationToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.Verify = true
			u.VerificationToken = nil
			r.users[id] = u
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("verification token: %w", apperrors.ErrNotFound)
}
