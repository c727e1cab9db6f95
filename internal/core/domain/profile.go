package domain

import "time"

// AccountStatus is the lifecycle state of a profile row.
type AccountStatus string

const (
	AccountStatusActive          AccountStatus = "active"
	AccountStatusSuspended       AccountStatus = "suspended"
	AccountStatusPendingDeletion AccountStatus = "pending_deletion"
)

// Profile is the application-owned row describing a user. Its ID always
// equals the platform Identity ID (1:1). It is created either by the
// platform-side trigger on identity creation or, when that trigger fails,
// by the signup recovery service.
type Profile struct {
	ID                     string        `json:"id"` // = Identity.ID
	FirstName              string        `json:"firstName"`
	LastName               string        `json:"lastName"`
	Email                  string        `json:"email"`
	EmailVerified          bool          `json:"emailVerified"`
	HasCompletedOnboarding bool          `json:"hasCompletedOnboarding"`
	AccountStatus          AccountStatus `json:"accountStatus"`
	PendingEmail           *string       `json:"pendingEmail,omitempty"`
	CreatedAt              time.Time     `json:"createdAt"`
	UpdatedAt              time.Time     `json:"updatedAt"`
	DeletedAt              *time.Time    `json:"-"` // Soft delete with grace period
}
