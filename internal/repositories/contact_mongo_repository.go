package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contactbook/internal/apperrors"
	"contactbook/internal/models"
)

// MongoContactRepository is a MongoDB implementation of ContactRepository.
type MongoContactRepository struct {
	col *mongo.Collection
}

// NewMongoContactRepository creates a new MongoContactRepository backed by
// the "contacts" collection of the given database.
func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{
		col: db.Collection("contacts"),
	}
}

// GetAll returns every contact owned by the given user.
func (r *MongoContactRepository) GetAll(ctx context.Context, ownerID string) ([]models.Contact, error) {
	cursor, err := r.col.Find(ctx, bson.M{"owner": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := make([]models.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return contacts, nil
}

// GetByID returns a single contact, scoped to its owner.
func (r *MongoContactRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "owner": ownerID}).Decode(&contact); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("contact with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}
	return &contact, nil
}

// Create inserts a new contact, generating an ID if one is not set.
func (r *MongoContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if _, err := r.col.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Update replaces the fields of an existing contact, scoped to its owner.
func (r *MongoContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": contact.ID, "owner": contact.Owner},
		bson.M{"$set": bson.M{
			"name":     contact.Name,
			"email":    contact.Email,
			"phone":    contact.Phone,
			"favorite": contact.Favorite,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update contact %s: %w", contact.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("contact with ID %s: %w", contact.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a contact, scoped to its owner.
func (r *MongoContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("contact with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateFavorite sets the favorite flag and returns the updated contact.
func (r *MongoContactRepository) UpdateFavorite(ctx context.Context, ownerID, id string, favorite bool) (*models.Contact, error) {
	var contact models.Contact
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": ownerID},
		bson.M{"$set": bson.M{"favorite": favorite}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&contact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("contact with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update favorite on contact %s: %w", id, err)
	}
	return &contact, nil
}
