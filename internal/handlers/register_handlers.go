package handlers

import (
	"github.com/Voyago/voyago_backend/cmd/docs"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/middleware"
	"github.com/Voyago/voyago_backend/internal/platform/config"
	"github.com/Voyago/voyago_backend/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {

	// Add health check route
	r.GET("/health", getHealth)

	// Public authentication surface: the OAuth callback and the backend-driven
	// Google exchange. Rate limited, never behind auth.
	registerAuthRoutes(r, cfg, services, authLimiter, posthogClient)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, posthogClient)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes configures the public /auth group
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer, authLimiter *limiter.Limiter, posthogClient *utils.PosthogClientWrapper) {
	auth := r.Group("/auth")
	if authLimiter != nil {
		auth.Use(middleware.RateLimit(authLimiter))
	}
	registerAuthCallbackRoutes(auth, services, cfg)
	registerGoogleOAuthRoutes(auth, services, posthogClient)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	// API tokens may satisfy auth first; bearer tokens otherwise.
	v1 := r.Group("/api/v1",
		middleware.APITokenAuth(services.APIToken),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	registerRegistrationRoutes(v1, services, posthogClient)
	registerServiceTokenRoutes(v1, services.APIToken)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
