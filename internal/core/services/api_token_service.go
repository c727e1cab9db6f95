package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	"github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const apiTokenPrefix = "vyg_"

// apiTokenService implements the APITokenSvc interface
type apiTokenService struct {
	tokenRepo repositories.APITokenRepository
}

// NewAPITokenService creates a new instance of apiTokenService
func NewAPITokenService(tokenRepo repositories.APITokenRepository) portssvc.APITokenSvc {
	return &apiTokenService{tokenRepo: tokenRepo}
}

// CreateToken generates a new API token for the user. The plaintext embeds
// the token ID so validation can look the row up directly instead of scanning
// every hash: vyg_{tokenID}.{secret}
func (s *apiTokenService) CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error) {
	if userID == "" {
		return "", nil, errors.New("user ID is required")
	}
	if name == "" {
		return "", nil, errors.New("token name is required")
	}

	secret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token secret: %w", err)
	}

	tokenHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash token: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != nil {
		expiry := time.Now().Add(*expiresIn)
		expiresAt = &expiry
	}

	apiToken := &domain.APIToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		TokenHash: string(tokenHash),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.Create(ctx, apiToken); err != nil {
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	plaintext := apiTokenPrefix + apiToken.ID + "." + secret
	return plaintext, apiToken, nil
}

// ListTokens returns all API tokens for a user
func (s *apiTokenService) ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	tokens, err := s.tokenRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// RevokeToken deletes a specific API token for a user
func (s *apiTokenService) RevokeToken(ctx context.Context, userID, tokenID string) error {
	if userID == "" || tokenID == "" {
		return errors.New("user ID and token ID are required")
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil || token.UserID != userID {
		return apperrors.ErrNotFound
	}

	if err := s.tokenRepo.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ValidateToken checks a presented token and returns the owning user ID.
func (s *apiTokenService) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	rest, ok := strings.CutPrefix(tokenString, apiTokenPrefix)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	tokenID, secret, ok := strings.Cut(rest, ".")
	if !ok || tokenID == "" || secret == "" {
		return "", apperrors.ErrUnauthorized
	}

	token, err := s.tokenRepo.FindByID(ctx, tokenID)
	if err != nil {
		return "", fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil {
		return "", apperrors.ErrUnauthorized
	}

	if token.IsExpired() {
		// Auto-revoke expired tokens
		_ = s.tokenRepo.Delete(ctx, token.ID)
		return "", apperrors.ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)) != nil {
		return "", apperrors.ErrUnauthorized
	}

	// Best-effort usage stamp; validation does not fail on it.
	_ = s.tokenRepo.TouchLastUsed(ctx, token.ID, time.Now())

	return token.UserID, nil
}
