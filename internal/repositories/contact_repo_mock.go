package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"contactbook/internal/apperrors"
	"contactbook/internal/models"
)

// MockContactRepository is an in-memory implementation of ContactRepository.
type MockContactRepository struct {
	contacts map[string]models.Contact
	mu       sync.RWMutex
}

// NewMockContactRepository creates a new instance of MockContactRepository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		contacts: make(map[string]models.Contact),
	}
}

// GetAll returns every contact owned by the given user.
func (r *MockContactRepository) GetAll(_ context.Context, ownerID string) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contacts := make([]models.Contact, 0)
	for _, c := range r.contacts {
		if c.Owner == ownerID {
			contacts = append(contacts, c)
		}
	}
	return contacts, nil
}

// GetByID returns a single contact, scoped to its owner.
func (r *MockContactRepository) GetByID(_ context.Context, ownerID, id string) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok || c.Owner != ownerID {
		return nil, fmt.Errorf("contact with ID %s: %w", id, apperrors.ErrNotFound)
	}
	contact := c
	return &contact, nil
}

// Create adds a new contact.
func (r *MockContactRepository) Create(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	r.contacts[contact.ID] = *contact
	return nil
}

// Update replaces the fields of an existing contact, scoped to its owner.
func (r *MockContactRepository) Update(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contacts[contact.ID]
	if !ok || existing.Owner != contact.Owner {
		return fmt.Errorf("contact with ID %s: %w", contact.ID, apperrors.ErrNotFound)
	}
	r.contacts[contact.ID] = *contact
	return nil
}

// Delete removes a contact, scoped to its owner.
func (r *MockContactRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok || c.Owner != ownerID {
		return fmt.Errorf("contact with ID %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.contacts, id)
	return nil
}

// UpdateFavorite sets the favorite flag and returns the updated contact.
func (r *MockContactRepository) UpdateFavorite(_ context.Context, ownerID, id string, favorite bool) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok || c.Owner != ownerID {
		return nil, fmt.Errorf("contact with ID %s: %w", id, apperrors.ErrNotFound)
	}
	c.Favorite = favorite
	r.contacts[id] = c
	contact := c
	return &contact, nil
}
