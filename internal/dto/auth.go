package dto

import (
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// ExchangeCodeRequest defines the expected JSON body for the
// /auth/google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// SessionResponse carries the platform-issued session tokens back to the SPA.
type SessionResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ExchangeCodeResponse is the successful response for the exchange-code
// endpoint: the platform session plus the resolved registration status, so the
// SPA can route in one round trip.
type ExchangeCodeResponse struct {
	Session      SessionResponse            `json:"session"`
	Registration RegistrationStatusResponse `json:"registration"`
}

// ToSessionResponse converts a domain session to its response DTO.
func ToSessionResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
	}
}
