package services

import (
	"context"
	"fmt"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// ContactService handles business logic for a user's contacts. Every
// operation is scoped to the owner passed in; the repository enforces the
// filter, this layer only threads it through.
type ContactService struct {
	contactRepo repositories.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo repositories.ContactRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
	}
}

// ListContacts returns all contacts owned by the user.
func (s *ContactService) ListContacts(ctx context.Context, ownerID string) ([]models.Contact, error) {
	return s.contactRepo.GetAll(ctx, ownerID)
}

// GetContact returns one contact owned by the user.
func (s *ContactService) GetContact(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	return s.contactRepo.GetByID(ctx, ownerID, id)
}

// CreateContact stores a new contact for the user.
func (s *ContactService) CreateContact(ctx context.Context, ownerID string, contact *models.Contact) (*models.Contact, error) {
	contact.Owner = ownerID
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// UpdateContact replaces the fields of an existing contact owned by the user.
func (s *ContactService) UpdateContact(ctx context.Context, ownerID, id string, contact *models.Contact) (*models.Contact, error) {
	contact.ID = id
	contact.Owner = ownerID
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact owned by the user.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, id string) error {
	return s.contactRepo.Delete(ctx, ownerID, id)
}

// UpdateFavorite sets the favorite flag on a contact owned by the user.
// Repeating the same value is a no-op beyond the write itself.
func (s *ContactService) UpdateFavorite(ctx context.Context, ownerID, id string, favorite bool) (*models.Contact, error) {
	return s.contactRepo.UpdateFavorite(ctx, ownerID, id, favorite)
}
