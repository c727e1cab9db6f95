package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/Voyago/voyago_backend/internal/adapters/cache"
	"github.com/Voyago/voyago_backend/internal/adapters/database/pgsql"
	"github.com/Voyago/voyago_backend/internal/adapters/gotrue"
	"github.com/Voyago/voyago_backend/internal/core/services"
	"github.com/Voyago/voyago_backend/internal/dto"
	"github.com/Voyago/voyago_backend/internal/handlers"
	"github.com/Voyago/voyago_backend/internal/middleware"
	"github.com/Voyago/voyago_backend/internal/platform/config"
	"github.com/Voyago/voyago_backend/internal/utils"
	"github.com/Voyago/voyago_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Voyago Backend API
// @version 1.0
// @description Registration status resolution, signup recovery and onboarding completion for the Voyago travel app.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the platform access token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Completion shadow: redis when configured, in-process otherwise.
	shadow := buildShadow(cfg, logger)

	// Hosted identity platform client
	platformClient := gotrue.NewClient(cfg, logger)

	repos := pgsql.NewRepositoryProvider(dbPool)

	serviceContainer := services.NewServiceContainer(
		cfg,
		*repos,
		services.PlatformClients{
			Sessions:    platformClient,
			Metadata:    platformClient,
			Admin:       platformClient,
			IDTokenAuth: platformClient,
		},
		shadow,
		logger,
	)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := dto.RegisterCustomValidations(); err != nil {
		logger.Error("Failed to register custom validations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, authLimiter(), posthogClient)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection via the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildShadow picks the completion-shadow backend. Redis failures at startup
// degrade to the in-process store rather than aborting: the shadow is an
// optimization, not a dependency the service can refuse to run without.
func buildShadow(cfg *config.Config, logger *slog.Logger) portssvc.CompletionShadowSvc {
	if cfg.RedisURL == "" {
		logger.Info("No redis configured, using in-process completion shadow")
		return cache.NewMemoryShadow()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, falling back to in-process completion shadow", slog.String("error", err.Error()))
		return cache.NewMemoryShadow()
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, falling back to in-process completion shadow", slog.String("error", err.Error()))
		return cache.NewMemoryShadow()
	}

	logger.Info("Redis completion shadow connected")
	return cache.NewRedisShadow(client, cfg.ShadowTTL, logger)
}

// corsConfig allows the SPA origin plus local development.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = []string{cfg.FrontendBaseURL, "http://localhost:3000"}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "x-api-key")
	c.AllowCredentials = true
	return c
}

// authLimiter bounds the public auth endpoints per client IP.
func authLimiter() *limiter.Limiter {
	rate := limiter.Rate{Period: time.Minute, Limit: 30}
	return limiter.New(limitermem.NewStore(), rate)
}
