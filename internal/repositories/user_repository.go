package repositories

import (
	"context"

	"contactbook/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateToken writes the single session slot. Passing nil clears it.
	UpdateToken(ctx context.Context, id string, token *string) error

	UpdateAvatar(ctx context.Context, id, avatarURL string) error

	// ConsumeVerificationToken atomically finds the user holding the
	// given verification token, marks the account verified and clears
	// the token. Returns ErrNotFound when no user holds the token, which
	// makes replay after a successful visit indistinguishable from an
	// unknown token.
	ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error)
}
