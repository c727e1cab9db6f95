package domain

// RegistrationStatus is the derived lifecycle stage of a user. It is computed
// fresh on every sign-in/callback/session check and never persisted.
type RegistrationStatus string

const (
	// StatusNew: no profile row exists yet (or a brand-new federated identity
	// carried corrupt completion flags). Route to onboarding.
	StatusNew RegistrationStatus = "NEW"
	// StatusIncompleteOnboarding: profile exists, onboarding not finished.
	// Route to onboarding (resume).
	StatusIncompleteOnboarding RegistrationStatus = "INCOMPLETE_ONBOARDING"
	// StatusReturning: at least one completion source says onboarding is done.
	StatusReturning RegistrationStatus = "RETURNING"
	// StatusError: we could not establish who the user is. Never used for
	// "profile data looks inconsistent".
	StatusError RegistrationStatus = "ERROR"
)

// Shadow flag keys. Both names are live: the SPA wrote hasCompletedInitialFlow
// before the rename and some installed clients still read it.
const (
	ShadowKeyOnboardingComplete = "has_completed_onboarding"
	ShadowKeyInitialFlow        = "hasCompletedInitialFlow"
)

// CompletionSignals is the per-source breakdown the resolver gathered. Each
// field is false both when the source says "not complete" and when the source
// could not be read; a fetch failure is just an absent signal.
type CompletionSignals struct {
	ProfileExists bool `json:"profileExists"`
	ProfileFlag   bool `json:"profileFlag"`
	PreferenceRow bool `json:"preferenceRow"`
	MetadataFlag  bool `json:"metadataFlag"`
	ShadowFlag    bool `json:"shadowFlag"`
}

// AnyComplete applies the any-source-wins rule: the sources are not
// transactionally consistent with each other, so a single positive source is
// enough. A false negative here sends a finished user back into onboarding,
// which is the one outcome this codebase exists to prevent.
func (s CompletionSignals) AnyComplete() bool {
	return s.ProfileFlag || s.PreferenceRow || s.MetadataFlag || s.ShadowFlag
}

// RegistrationResolution is the resolver's full answer: the canonical status,
// the identity it was computed for (nil on StatusError) and the raw signals.
type RegistrationResolution struct {
	Status   RegistrationStatus `json:"status"`
	Identity *Identity          `json:"-"`
	Signals  CompletionSignals  `json:"signals"`
	// Cause is the diagnostic for StatusError; empty otherwise.
	Cause string `json:"cause,omitempty"`
}
