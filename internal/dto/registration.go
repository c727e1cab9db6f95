package dto

import (
	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// RegistrationStatusResponse is the resolver's answer as returned to clients.
// The signal breakdown is included so support can see which source decided.
type RegistrationStatusResponse struct {
	Status  string                   `json:"status"`
	Signals domain.CompletionSignals `json:"signals"`
	Cause   string                   `json:"cause,omitempty"`
}

// ToRegistrationStatusResponse converts a domain resolution to the response DTO.
func ToRegistrationStatusResponse(res *domain.RegistrationResolution) RegistrationStatusResponse {
	return RegistrationStatusResponse{
		Status:  string(res.Status),
		Signals: res.Signals,
		Cause:   res.Cause,
	}
}

// CompleteOnboardingRequest is the body for the onboarding completion write.
// Completed is a pointer so an omitted field (the common "I just finished"
// call) defaults to true rather than to the zero value.
type CompleteOnboardingRequest struct {
	Completed *bool `json:"completed"`
}

// IsCompleted resolves the request's intent, defaulting to true.
func (r CompleteOnboardingRequest) IsCompleted() bool {
	if r.Completed == nil {
		return true
	}
	return *r.Completed
}

// RecoveryRequest is the body for a manual recovery run. IdentityID is only
// honored for API-token callers; bearer-token callers always recover
// themselves.
type RecoveryRequest struct {
	IdentityID string `json:"identityId"`
}

// RecoveryResponse reports the outcome of a manual recovery run.
type RecoveryResponse struct {
	Recovered bool   `json:"recovered"`
	Status    string `json:"status,omitempty"`
}
