package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Voyago/voyago_backend/internal/adapters/gotrue"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/middleware"
	"github.com/Voyago/voyago_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// authCallbackHandler handles the OAuth redirect target. The identity platform
// sends users here after every federated sign-in, successful or not.
type authCallbackHandler struct {
	registration portssvc.RegistrationSvcFacade
	sessions     portssvc.SessionAccessorSvc
	frontendBase string
}

func newAuthCallbackHandler(services *portssvc.ServiceContainer, cfg *config.Config) *authCallbackHandler {
	return &authCallbackHandler{
		registration: services.Registration,
		sessions:     services.Sessions,
		frontendBase: cfg.FrontendBaseURL,
	}
}

// handleCallback godoc
// @Summary OAuth redirect target
// @Description Inspects the redirect parameters, repairs partial signups, resolves the registration status and redirects to the matching frontend route.
// @Tags auth
// @Produce html
// @Success 302
// @Router /auth/callback [get]
func (h *authCallbackHandler) handleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ctx := c.Request.Context()
	params := c.Request.URL.Query()

	accessToken := params.Get("access_token")
	if accessToken == "" {
		// Some platform flows hand back only the refresh token in the query.
		if refreshToken := params.Get("refresh_token"); refreshToken != "" {
			session, err := h.sessions.RefreshSession(ctx, refreshToken)
			if err != nil {
				logger.Warn("callback: refresh token exchange failed", slog.String("error", err.Error()))
			} else {
				accessToken = session.AccessToken
			}
		}
	}

	// The platform reports "identity created but profile creation failed" as a
	// redirect error while still having issued a session. Detect it and repair
	// before resolving, so the user lands in onboarding instead of a dead end.
	if gotrue.IsPostSignupProfileCreationFailure(params) && accessToken != "" {
		ident, err := h.sessions.GetIdentity(ctx, accessToken)
		if err != nil {
			logger.Warn("callback: identity fetch after partial-signup signature failed", slog.String("error", err.Error()))
		} else if err := h.registration.Recover(ctx, ident); err != nil {
			logger.Warn("callback: signup recovery failed", slog.String("error", err.Error()))
		} else {
			logger.Info("callback: partial signup recovered", slog.String("identity_id", ident.ID))
		}
	}

	res := h.registration.Resolve(ctx, accessToken)
	c.Redirect(http.StatusFound, h.redirectFor(res))
}

// redirectFor maps the resolved status to the frontend route. This is the only
// routing decision the backend makes; everything past the redirect belongs to
// the SPA.
func (h *authCallbackHandler) redirectFor(res *domain.RegistrationResolution) string {
	switch res.Status {
	case domain.StatusReturning:
		return h.frontendBase + "/app"
	case domain.StatusNew, domain.StatusIncompleteOnboarding:
		return h.frontendBase + "/onboarding"
	default:
		return h.frontendBase + "/sign-in?error=" + url.QueryEscape("We couldn't verify your session. Please sign in again.")
	}
}

// registerAuthCallbackRoutes registers the OAuth callback route.
func registerAuthCallbackRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, cfg *config.Config) {
	h := newAuthCallbackHandler(services, cfg)
	rg.GET("/callback", h.handleCallback)
}
