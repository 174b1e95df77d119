package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"contactbook/internal/apperrors"
	"contactbook/internal/models"
	"contactbook/internal/services"
)

// MockContactRepository is a mock implementation of repositories.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) GetAll(ctx context.Context, ownerID string) ([]models.Contact, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockContactRepository) UpdateFavorite(ctx context.Context, ownerID, id string, favorite bool) (*models.Contact, error) {
	args := m.Called(ctx, ownerID, id, favorite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func TestContactService_CreateContact(t *testing.T) {
	mockRepo := new(MockContactRepository)
	contactService := services.NewContactService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Contact")).Return(nil).Once()

	contact, err := contactService.CreateContact(context.Background(), "owner-1", &models.Contact{
		Name:  "Alice Smith",
		Email: "alice@example.com",
		Phone: "5551234567",
	})
	assert.NoError(t, err)
	// The owner is always the authenticated user, never client input.
	assert.Equal(t, "owner-1", contact.Owner)
	mockRepo.AssertExpectations(t)
}

func TestContactService_UpdateContact_ForcesOwnerAndID(t *testing.T) {
	mockRepo := new(MockContactRepository)
	contactService := services.NewContactService(mockRepo)

	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Contact")).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(*models.Contact)
			assert.Equal(t, "contact-1", updated.ID)
			assert.Equal(t, "owner-1", updated.Owner)
		}).Return(nil).Once()

	_, err := contactService.UpdateContact(context.Background(), "owner-1", "contact-1", &models.Contact{
		ID:    "spoofed-id",
		Owner: "spoofed-owner",
		Name:  "Alice Smith",
		Email: "alice@example.com",
		Phone: "5551234567",
	})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestContactService_GetContact_NotFoundPassesThrough(t *testing.T) {
	mockRepo := new(MockContactRepository)
	contactService := services.NewContactService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "owner-1", "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := contactService.GetContact(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestContactService_UpdateFavorite(t *testing.T) {
	mockRepo := new(MockContactRepository)
	contactService := services.NewContactService(mockRepo)

	favored := &models.Contact{ID: "contact-1", Owner: "owner-1", Name: "Alice Smith", Favorite: true}
	mockRepo.On("UpdateFavorite", mock.Anything, "owner-1", "contact-1", true).Return(favored, nil).Twice()

	// Repeating the same value yields the same state both times.
	for i := 0; i < 2; i++ {
		contact, err := contactService.UpdateFavorite(context.Background(), "owner-1", "contact-1", true)
		assert.NoError(t, err)
		assert.True(t, contact.Favorite)
	}
	mockRepo.AssertExpectations(t)
}
