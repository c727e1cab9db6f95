package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
	portsrepo "github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
)

// defaultSessionFetchTimeout bounds the one call whose indefinite hang must
// not freeze the whole sign-in flow: the initial identity fetch. Every other
// source is optional and already absorbed on failure.
const defaultSessionFetchTimeout = 8 * time.Second

// registrationService implements the resolver, the signup recovery and the
// onboarding completion writer. The three are facets of one reconciliation
// module and share the same signal sources, so they live on one type.
type registrationService struct {
	profileRepo    portsrepo.ProfileRepositoryFacade
	preferenceRepo portsrepo.PreferenceReader
	shadow         portssvc.CompletionShadowSvc
	sessions       portssvc.SessionAccessorSvc
	metadata       portssvc.IdentityMetadataSvc
	logger         *slog.Logger

	sessionFetchTimeout time.Duration
	syncWriteBack       bool
}

// RegistrationServiceOption configures a registrationService.
type RegistrationServiceOption func(*registrationService)

// WithSessionFetchTimeout overrides the bound on the initial identity fetch.
func WithSessionFetchTimeout(d time.Duration) RegistrationServiceOption {
	return func(s *registrationService) {
		if d > 0 {
			s.sessionFetchTimeout = d
		}
	}
}

// WithSynchronousWriteBack makes the self-healing write-back run before
// Resolve returns instead of in the background. Production keeps it async so
// the status return never blocks on a repair; tests need the deterministic
// ordering.
func WithSynchronousWriteBack() RegistrationServiceOption {
	return func(s *registrationService) {
		s.syncWriteBack = true
	}
}

// NewRegistrationService creates the registration service.
func NewRegistrationService(
	profileRepo portsrepo.ProfileRepositoryFacade,
	preferenceRepo portsrepo.PreferenceReader,
	shadow portssvc.CompletionShadowSvc,
	sessions portssvc.SessionAccessorSvc,
	metadata portssvc.IdentityMetadataSvc,
	logger *slog.Logger,
	opts ...RegistrationServiceOption,
) portssvc.RegistrationSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	s := &registrationService{
		profileRepo:         profileRepo,
		preferenceRepo:      preferenceRepo,
		shadow:              shadow,
		sessions:            sessions,
		metadata:            metadata,
		logger:              logger,
		sessionFetchTimeout: defaultSessionFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RegistrationSvcFacade = (*registrationService)(nil)

// Resolve determines the user's lifecycle stage from every available signal.
//
// The completion check is a deliberate OR across sources (any-source-wins):
// the platform's metadata update and our own database writes are independent
// network calls with no shared transaction, so requiring agreement between
// them produces "please onboard again" loops for users who already finished.
// A false positive here is recoverable; a false negative is the bug this
// service exists to kill. Call sites must not re-derive status from a single
// source.
func (s *registrationService) Resolve(ctx context.Context, accessToken string) *domain.RegistrationResolution {
	fetchCtx, cancel := context.WithTimeout(ctx, s.sessionFetchTimeout)
	defer cancel()

	ident, err := s.sessions.GetIdentity(fetchCtx, accessToken)
	if err != nil {
		s.logger.Warn("registration resolve: no identity available", slog.String("error", err.Error()))
		return &domain.RegistrationResolution{Status: domain.StatusError, Cause: err.Error()}
	}
	if ident == nil || ident.ID == "" {
		s.logger.Warn("registration resolve: session returned empty identity")
		return &domain.RegistrationResolution{Status: domain.StatusError, Cause: "no identity in session"}
	}

	res := &domain.RegistrationResolution{Identity: ident}
	logger := s.logger.With(slog.String("identity_id", ident.ID))

	profile := s.fetchProfileSignal(ctx, ident.ID, logger)
	res.Signals.ProfileExists = profile != nil
	res.Signals.ProfileFlag = profile != nil && profile.HasCompletedOnboarding

	if has, err := s.preferenceRepo.HasTravelPreferences(ctx, ident.ID); err != nil {
		logger.Warn("preference signal unavailable, treating as absent", slog.String("error", err.Error()))
	} else {
		res.Signals.PreferenceRow = has
	}

	res.Signals.MetadataFlag = ident.HasCompletedOnboardingMetadata()
	res.Signals.ShadowFlag = s.fetchShadowSignal(ctx, ident.ID, logger)

	// A brand-new federated identity cannot already have finished onboarding.
	// Completion flags showing up this early are corrupted state, not truth —
	// unless the authoritative profile row itself says complete.
	if ident.IsBrandNewFederated() && !res.Signals.ProfileFlag {
		if res.Signals.AnyComplete() {
			logger.Warn("ignoring stray completion flags on brand-new federated identity",
				slog.Any("signals", res.Signals))
		}
		if res.Signals.ProfileExists {
			res.Status = domain.StatusIncompleteOnboarding
			return res
		}
		res.Status = domain.StatusNew
		s.recoverAbsorbed(ctx, ident, logger)
		return res
	}

	if res.Signals.AnyComplete() {
		res.Status = domain.StatusReturning
		s.writeBackLaggingSources(ctx, ident, accessToken, res.Signals)
		return res
	}

	if res.Signals.ProfileExists {
		res.Status = domain.StatusIncompleteOnboarding
		return res
	}

	// Authenticated identity with no profile row: exactly the partial-signup
	// failure signature. Repair as a side effect, classify as NEW either way.
	res.Status = domain.StatusNew
	s.recoverAbsorbed(ctx, ident, logger)
	return res
}

// fetchProfileSignal reads the profile row, absorbing fetch failures and
// hiding rows past their soft-delete grace.
func (s *registrationService) fetchProfileSignal(ctx context.Context, identityID string, logger *slog.Logger) *domain.Profile {
	profile, err := s.profileRepo.FindProfileByID(ctx, identityID)
	if err != nil {
		logger.Warn("profile signal unavailable, treating as absent", slog.String("error", err.Error()))
		return nil
	}
	if profile != nil && profile.DeletedAt != nil {
		return nil
	}
	return profile
}

func (s *registrationService) fetchShadowSignal(ctx context.Context, identityID string, logger *slog.Logger) bool {
	for _, key := range []string{domain.ShadowKeyOnboardingComplete, domain.ShadowKeyInitialFlow} {
		v, err := s.shadow.GetFlag(ctx, identityID, key)
		if err != nil {
			logger.Warn("shadow signal unavailable, treating as absent",
				slog.String("key", key), slog.String("error", err.Error()))
			continue
		}
		if v {
			return true
		}
	}
	return false
}

// recoverAbsorbed runs recovery without letting its failure change the
// resolved status: the caller already classified the user, and recovery is
// retried on the next sign-in anyway.
func (s *registrationService) recoverAbsorbed(ctx context.Context, ident *domain.Identity, logger *slog.Logger) {
	if err := s.Recover(ctx, ident); err != nil {
		logger.Warn("signup recovery during resolve failed", slog.String("error", err.Error()))
	}
}

// writeBackLaggingSources opportunistically repairs sources that missed the
// completion write. The status return never blocks on these; a failed
// write-back just means the next resolve repairs again.
func (s *registrationService) writeBackLaggingSources(ctx context.Context, ident *domain.Identity, accessToken string, signals domain.CompletionSignals) {
	run := func(ctx context.Context) {
		logger := s.logger.With(slog.String("identity_id", ident.ID))

		if !signals.ProfileFlag {
			if !signals.ProfileExists {
				// Create the row first so there is something to flag.
				if err := s.Recover(ctx, ident); err != nil {
					logger.Warn("write-back: profile synthesis failed", slog.String("error", err.Error()))
					return
				}
			}
			if err := s.profileRepo.SetOnboardingComplete(ctx, ident.ID, true, time.Now()); err != nil {
				logger.Warn("write-back: profile completion flag failed", slog.String("error", err.Error()))
			}
		}

		if !signals.MetadataFlag && accessToken != "" {
			if _, err := s.metadata.UpdateIdentityMetadata(ctx, accessToken, map[string]any{
				domain.MetadataKeyOnboardingComplete: true,
			}); err != nil {
				logger.Warn("write-back: identity metadata flag failed", slog.String("error", err.Error()))
			}
		}

		if !signals.ShadowFlag {
			for _, key := range []string{domain.ShadowKeyOnboardingComplete, domain.ShadowKeyInitialFlow} {
				if err := s.shadow.SetFlag(ctx, ident.ID, key, true); err != nil {
					logger.Warn("write-back: shadow flag failed",
						slog.String("key", key), slog.String("error", err.Error()))
				}
			}
		}
	}

	if s.syncWriteBack {
		run(ctx)
		return
	}
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	go func() {
		defer cancel()
		run(bg)
	}()
}
