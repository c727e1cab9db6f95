package services

import (
	"log/slog"

	portsrepo "github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/platform/config"
)

// PlatformClients bundles the hosted-identity-platform facades the services
// depend on. One concrete client typically implements all of them.
type PlatformClients struct {
	Sessions    portssvc.SessionAccessorSvc
	Metadata    portssvc.IdentityMetadataSvc
	Admin       portssvc.IdentityAdminSvc
	IDTokenAuth portssvc.IDTokenSignInSvc
}

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	platform PlatformClients,
	shadow portssvc.CompletionShadowSvc,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Sessions = platform.Sessions
	container.Admin = platform.Admin
	container.Metadata = platform.Metadata
	container.IDTokenAuth = platform.IDTokenAuth
	container.Shadow = shadow

	container.Registration = NewRegistrationService(
		repos.ProfileRepo,
		repos.PreferenceRepo,
		shadow,
		platform.Sessions,
		platform.Metadata,
		logger,
		WithSessionFetchTimeout(cfg.SessionFetchTimeout),
	)

	container.GoogleOAuth = NewGoogleOAuthService(cfg)
	container.APIToken = NewAPITokenService(repos.APITokenRepo)

	return container
}
