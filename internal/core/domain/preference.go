package domain

import "time"

// TravelPreference is the row the onboarding wizard writes once a user picks
// their travel style. Its mere existence is strong evidence that onboarding
// finished, independently of the profile flag.
type TravelPreference struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"` // Identity.ID
	Pace        string    `json:"pace"`
	BudgetLevel string    `json:"budgetLevel"`
	Interests   []string  `json:"interests"`
	CreatedAt   time.Time `json:"createdAt"`
}
