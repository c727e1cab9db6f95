package dto

import (
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// CreateAPITokenRequest represents the request body for creating a new API token
type CreateAPITokenRequest struct {
	// Name is a user-defined name for the token (3-100 characters)
	Name string `json:"name" binding:"required,min=3,max=100,printname" example:"Reconciliation cron"`
	// ExpiresIn is the duration in seconds after which the token will expire (optional)
	ExpiresIn *int64 `json:"expiresIn,omitempty" example:"2592000"`
}

// APITokenResponse represents an API token in API responses
type APITokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateAPITokenResponse represents the response when creating a new API token
type CreateAPITokenResponse struct {
	// Token is the actual API token (only shown once at creation)
	Token string `json:"token"`
	// Details contains the token metadata
	Details APITokenResponse `json:"details"`
}

// ToAPITokenResponse converts a domain.APIToken to APITokenResponse DTO
func ToAPITokenResponse(token domain.APIToken) APITokenResponse {
	return APITokenResponse{
		ID:         token.ID,
		Name:       token.Name,
		LastUsedAt: token.LastUsedAt,
		ExpiresAt:  token.ExpiresAt,
		CreatedAt:  token.CreatedAt,
	}
}

// ToAPITokenResponseList converts a slice of domain.APIToken to response DTOs
func ToAPITokenResponseList(tokens []domain.APIToken) []APITokenResponse {
	out := make([]APITokenResponse, len(tokens))
	for i, token := range tokens {
		out[i] = ToAPITokenResponse(token)
	}
	return out
}

// ToCreateAPITokenResponse wraps a freshly created token with its metadata
func ToCreateAPITokenResponse(tokenStr string, token domain.APIToken) CreateAPITokenResponse {
	return CreateAPITokenResponse{
		Token:   tokenStr,
		Details: ToAPITokenResponse(token),
	}
}
