package services

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/disintegration/imaging"
	"golang.org/x/crypto/bcrypt"

	"contactbook/internal/apperrors"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/pkg/queue"
)

// avatarSize is the edge length avatars are resized to before serving.
const avatarSize = 250

// EmailPublisher queues verification emails for asynchronous delivery.
type EmailPublisher interface {
	PublishEmailMessage(msg queue.EmailMessage) error
}

// AuthService handles business logic for accounts, sessions and
// verification tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	publisher  EmailPublisher // may be nil, e.g. in tests
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	avatarDir  string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, publisher EmailPublisher, jwtSecret, avatarDir string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		publisher:  publisher,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: time.Hour, // short expiry bounds exposure of a leaked token
		avatarDir:  avatarDir,
	}
}

// SignupUser registers a new account: hashes the password, derives a
// default gravatar avatar, creates a verification token and queues the
// verification email. The returned user carries the bcrypt hash, callers
// must project it before responding.
func (s *AuthService) SignupUser(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("email %q already registered: %w", email, apperrors.ErrConflict)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		// A store failure is not proof the email is free.
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := newVerificationToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             email,
		Password:          string(hashedPassword),
		Subscription:      models.SubscriptionStarter,
		AvatarURL:         gravatarURL(email),
		VerificationToken: &verificationToken,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	// Delivery is queued; a publish failure is logged and signup still
	// succeeds, the account simply stays unverified until re-sent.
	if s.publisher != nil {
		msg := queue.EmailMessage{To: user.Email, VerificationToken: verificationToken}
		if err := s.publisher.PublishEmailMessage(msg); err != nil {
			log.Printf("Warning: failed to queue verification email for %s: %v", user.Email, err)
		}
	} else {
		log.Println("Email publisher is not initialized. Skipping verification email.")
	}

	return user, nil
}

// LoginUser authenticates the credentials and, on success, issues a JWT
// and stores it as the user's current session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("email or password is wrong: %w", apperrors.ErrNotAuthorized)
	}

	// A malformed stored hash also lands here, as a plain mismatch.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("email or password is wrong: %w", apperrors.ErrNotAuthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":           user.ID,
		"email":        user.Email,
		"subscription": user.Subscription,
		"exp":          time.Now().Add(s.tokenDurat).Unix(),
		"iat":          time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Overwriting the slot implicitly invalidates any prior session.
	if err := s.userRepo.UpdateToken(ctx, user.ID, &tokenString); err != nil {
		return "", nil, fmt.Errorf("failed to store session token: %w", err)
	}
	user.Token = &tokenString

	return tokenString, user, nil
}

// LogoutUser clears the user's session-token slot.
func (s *AuthService) LogoutUser(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification token, marking the account verified.
// An unknown or already-consumed token returns ErrNotFound.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	return s.userRepo.ConsumeVerificationToken(ctx, token)
}

// Authenticate resolves a presented bearer token to its user. The token
// must carry a valid signature, be unexpired, and be byte-equal to the
// user's stored session token. Every failure is ErrNotAuthorized, the
// caller never learns which check rejected.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("token rejected: %w", apperrors.ErrNotAuthorized)
	}

	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("token has no identity claim: %w", apperrors.ErrNotAuthorized)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("token subject unknown: %w", apperrors.ErrNotAuthorized)
	}

	// The stored-token comparison is what makes logout and re-login
	// invalidate still-unexpired tokens.
	if user.Token == nil || *user.Token != tokenString {
		return nil, fmt.Errorf("token is not the current session: %w", apperrors.ErrNotAuthorized)
	}

	return user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// UpdateAvatar resizes the staged upload, moves it into the public avatar
// directory under a per-user name and persists the resulting URL.
// The staged file is removed in every case.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID, stagedPath, originalName string) (string, error) {
	defer os.Remove(stagedPath)

	img, err := imaging.Open(stagedPath)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded avatar: %w", err)
	}
	img = imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)

	avatarName := fmt.Sprintf("%s_%s", userID, filepath.Base(originalName))
	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar directory: %w", err)
	}
	if err := imaging.Save(img, filepath.Join(s.avatarDir, avatarName)); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	avatarURL := "/avatars/" + avatarName
	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return "", err
	}
	return avatarURL, nil
}

// newVerificationToken returns a fresh opaque verification token:
// 32 random bytes, hex-encoded.
func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// gravatarURL derives the default identicon avatar for an email address.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=identicon", hex.EncodeToString(sum[:]))
}
