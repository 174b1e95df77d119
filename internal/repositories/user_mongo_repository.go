package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contactbook/internal/apperrors"
	"contactbook/internal/models"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository backed by the
// "users" collection of the given database and ensures the unique index
// on email that backs duplicate detection under concurrent signups.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	col := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Warning: failed to ensure unique email index: %v", err)
	}

	return &MongoUserRepository{col: col}
}

// Create inserts a new user, generating an ID if one is not set. A
// duplicate email lost a race with another signup and surfaces as a
// conflict.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %q already registered: %w", user.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// UpdateToken writes the session-token slot. A nil token clears it.
func (r *MongoUserRepository) UpdateToken(ctx context.Context, id string, token *string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"token": token}})
	if err != nil {
		return fmt.Errorf("failed to update token for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateAvatar persists a new avatar URL for the user.
func (r *MongoUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"avatarURL": avatarURL}})
	if err != nil {
		return fmt.Errorf("failed to update avatar for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ConsumeVerificationToken marks the matching user verified and clears the
// token in a single findOneAndUpdate, so a token can only ever be consumed
// once.
func (r *MongoUserRepository) ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"verificationToken": token},
		bson.M{"$set": bson.M{"verify": true, "verificationToken": nil}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("verification token: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}
	return &user, nil
}
