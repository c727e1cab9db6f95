package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/dto"
	"github.com/Voyago/voyago_backend/internal/middleware"
	"github.com/Voyago/voyago_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// registrationHandler exposes the resolver, the completion writer and manual
// recovery over HTTP.
type registrationHandler struct {
	registration portssvc.RegistrationSvcFacade
	sessions     portssvc.SessionAccessorSvc
	admin        portssvc.IdentityAdminSvc
	posthog      *utils.PosthogClientWrapper
}

func newRegistrationHandler(services *portssvc.ServiceContainer, posthogClient *utils.PosthogClientWrapper) *registrationHandler {
	return &registrationHandler{
		registration: services.Registration,
		sessions:     services.Sessions,
		admin:        services.Admin,
		posthog:      posthogClient,
	}
}

// registerRegistrationRoutes registers the registration-related routes.
func registerRegistrationRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, posthogClient *utils.PosthogClientWrapper) {
	h := newRegistrationHandler(services, posthogClient)

	rg.GET("/registration/status", h.getStatus)
	rg.POST("/onboarding/complete", h.completeOnboarding)
	rg.POST("/recovery", h.runRecovery)
}

// getStatus godoc
// @Summary Resolve the registration status
// @Description Cross-checks every completion signal source and returns the canonical lifecycle stage with the per-source breakdown
// @Tags registration
// @Produce json
// @Success 200 {object} dto.RegistrationStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /registration/status [get]
func (h *registrationHandler) getStatus(c *gin.Context) {
	accessToken, ok := middleware.GetAccessTokenFromContext(c)
	if !ok {
		// API-token callers have no platform session to resolve against.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Status resolution requires a platform session"})
		return
	}

	res := h.registration.Resolve(c.Request.Context(), accessToken)
	c.JSON(http.StatusOK, dto.ToRegistrationStatusResponse(res))
}

// completeOnboarding godoc
// @Summary Mark onboarding complete
// @Description Writes the completion flag to every signal source, local shadow first
// @Tags registration
// @Accept json
// @Produce json
// @Param request body dto.CompleteOnboardingRequest false "Completion intent (defaults to completed)"
// @Success 200 {object} dto.RegistrationStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Completion write failed"
// @Security BearerAuth
// @Router /onboarding/complete [post]
func (h *registrationHandler) completeOnboarding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accessToken, ok := middleware.GetAccessTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Onboarding completion requires a platform session"})
		return
	}

	var req dto.CompleteOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ident, err := h.sessions.GetIdentity(c.Request.Context(), accessToken)
	if err != nil {
		logger.Warn("completion write: identity fetch failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not establish your session"})
		return
	}

	if err := h.registration.MarkComplete(c.Request.Context(), ident, accessToken, req.IsCompleted()); err != nil {
		logger.Error("completion write failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record onboarding completion"})
		return
	}

	middleware.PosthogEvent(c, h.posthog, "onboarding_completed", map[string]any{
		"completed": req.IsCompleted(),
	})

	// Re-resolve so the caller gets the post-write view in the same round trip.
	res := h.registration.Resolve(c.Request.Context(), accessToken)
	c.JSON(http.StatusOK, dto.ToRegistrationStatusResponse(res))
}

// runRecovery godoc
// @Summary Re-run signup recovery
// @Description Idempotent manual repair of a partial signup. Bearer callers recover themselves; API-token callers pass the target identity ID.
// @Tags registration
// @Accept json
// @Produce json
// @Param request body dto.RecoveryRequest false "Target identity (API-token callers only)"
// @Success 200 {object} dto.RecoveryResponse
// @Failure 400 {object} map[string]string "Missing target identity"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Recovery failed"
// @Security BearerAuth
// @Router /recovery [post]
func (h *registrationHandler) runRecovery(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ctx := c.Request.Context()

	var req dto.RecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if accessToken, ok := middleware.GetAccessTokenFromContext(c); ok {
		ident, err := h.sessions.GetIdentity(ctx, accessToken)
		if err != nil {
			logger.Warn("recovery: identity fetch failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not establish your session"})
			return
		}
		if err := h.registration.Recover(ctx, ident); err != nil {
			logger.Error("recovery failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrRecoveryFailed.Error()})
			return
		}
		middleware.PosthogEvent(c, h.posthog, "recovery_run", map[string]any{"trigger": "manual"})
		res := h.registration.Resolve(ctx, accessToken)
		c.JSON(http.StatusOK, dto.RecoveryResponse{Recovered: true, Status: string(res.Status)})
		return
	}

	// Server-to-server path: an API token authenticated the request, so the
	// target identity comes from the body and is read with admin credentials.
	if req.IdentityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identityId is required for server-to-server recovery"})
		return
	}
	ident, err := h.admin.AdminGetIdentity(ctx, req.IdentityID)
	if err != nil {
		logger.Warn("recovery: admin identity lookup failed", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Identity not found"})
		return
	}
	if err := h.registration.Recover(ctx, ident); err != nil {
		logger.Error("recovery failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrRecoveryFailed.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.RecoveryResponse{Recovered: true})
}
