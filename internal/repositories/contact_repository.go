package repositories

import (
	"context"

	"contactbook/internal/models"
)

// ContactRepository defines the interface for contact data access.
// Every method takes the owner's user ID and filters by it, so a contact
// never leaks across accounts regardless of the ID supplied.
type ContactRepository interface {
	GetAll(ctx context.Context, ownerID string) ([]models.Contact, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, ownerID, id string) error
	UpdateFavorite(ctx context.Context, ownerID, id string, favorite bool) (*models.Contact, error)
}
