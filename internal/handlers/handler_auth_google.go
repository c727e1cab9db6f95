package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Voyago/voyago_backend/internal/adapters/gotrue"
	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/dto"
	"github.com/Voyago/voyago_backend/internal/middleware"
	"github.com/Voyago/voyago_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler handles the backend-driven Google sign-in path: the SPA
// sends the authorization code here instead of talking to Google directly.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthSvcFacade
	idTokenAuth        portssvc.IDTokenSignInSvc
	registration       portssvc.RegistrationSvcFacade
	posthog            *utils.PosthogClientWrapper
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthSvcFacade,
	idTokenAuth portssvc.IDTokenSignInSvc,
	registration portssvc.RegistrationSvcFacade,
	posthogClient *utils.PosthogClientWrapper,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		idTokenAuth:        idTokenAuth,
		registration:       registration,
		posthog:            posthogClient,
	}
}

// ExchangeCodeGoogle handles the POST request from the frontend containing the
// authorization code from Google. It exchanges the code for Google tokens,
// validates the ID token, signs the user in to the identity platform, repairs
// partial signups, and returns the platform session with the resolved
// registration status.
// @Summary Exchange authorization code for a platform session
// @Description Exchange a Google authorization code for an identity platform session plus the resolved registration status
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.ExchangeCodeResponse
// @Failure 400 {object} map[string]string "Invalid authorization code"
// @Failure 502 {object} map[string]string "Failed to exchange authorization code"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for exchange code request", slog.String("error", err.Error()))
		appErr := apperrors.NewBadRequestError("Invalid request payload: " + err.Error())
		c.JSON(appErr.Code, appErr)
		return
	}

	// 1. Exchange authorization code for Google tokens
	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		c.JSON(appErr.Code, appErr)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		appErr := apperrors.NewInternalServerError("Failed to retrieve ID token from Google.")
		c.JSON(appErr.Code, appErr)
		return
	}

	// 2. Validate Google's ID Token
	if _, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString); err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		appErr := apperrors.NewUnauthorizedError("Invalid Google ID token: " + err.Error())
		c.JSON(appErr.Code, appErr)
		return
	}

	// 3. Sign in to the identity platform with the validated ID token
	session, err := h.signInWithRecovery(ctx, idTokenString, logger)
	if err != nil {
		logger.Error("Platform sign-in with ID token failed", slog.String("error", err.Error()))
		appErr := apperrors.NewInternalServerError("Failed to sign in with Google.")
		c.JSON(appErr.Code, appErr)
		return
	}

	if h.posthog != nil && h.posthog.IsInitialized() && session.Identity != nil {
		h.posthog.Enqueue(session.Identity.ID, "sign_in", map[string]any{"provider": "google"})
	}

	// 4. Resolve the registration status so the SPA can route immediately
	res := h.registration.Resolve(ctx, session.AccessToken)

	c.JSON(http.StatusOK, dto.ExchangeCodeResponse{
		Session:      dto.ToSessionResponse(session),
		Registration: dto.ToRegistrationStatusResponse(res),
	})
}

// signInWithRecovery performs the platform sign-in, handling the platform's
// "Database error saving new user" failure mode: the identity was created but
// the profile trigger failed. A single retry signs in against the
// now-existing identity, after which recovery synthesizes the profile row.
func (h *GoogleOAuthHandler) signInWithRecovery(ctx context.Context, idToken string, logger *slog.Logger) (*domain.Session, error) {
	session, err := h.idTokenAuth.SignInWithIDToken(ctx, domain.ProviderGoogle, idToken)
	if err == nil {
		return session, nil
	}
	if !gotrue.IsProfileCreationFailureError(err) {
		return nil, err
	}

	logger.Warn("partial signup detected during ID token sign-in, retrying", slog.String("error", err.Error()))
	session, err = h.idTokenAuth.SignInWithIDToken(ctx, domain.ProviderGoogle, idToken)
	if err != nil {
		return nil, err
	}
	if session.Identity != nil {
		if rerr := h.registration.Recover(ctx, session.Identity); rerr != nil {
			logger.Warn("signup recovery after retry failed", slog.String("error", rerr.Error()))
		}
	}
	return session, nil
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, posthogClient *utils.PosthogClientWrapper) {
	h := NewGoogleOAuthHandler(services.GoogleOAuth, services.IDTokenAuth, services.Registration, posthogClient)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}
