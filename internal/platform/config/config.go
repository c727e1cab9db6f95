package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	RedisURL      string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Hosted identity platform (GoTrue-compatible REST API)
	AuthBaseURL        string `mapstructure:"AUTH_BASE_URL"`
	AuthAnonKey        string `mapstructure:"AUTH_ANON_KEY"`
	AuthServiceRoleKey string `mapstructure:"AUTH_SERVICE_ROLE_KEY"`
	// JWTSecret is the platform project's JWT secret; we verify the
	// platform-issued access tokens with it, we never issue our own.
	JWTSecret string `mapstructure:"AUTH_JWT_SECRET"`

	// SessionFetchTimeout bounds the initial identity fetch during status
	// resolution.
	SessionFetchTimeout time.Duration
	// ShadowTTL bounds how long the redis completion-flag shadow may stand in
	// for the authoritative sources.
	ShadowTTL time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("AUTH_BASE_URL", "")
	viper.SetDefault("AUTH_ANON_KEY", "")
	viper.SetDefault("AUTH_SERVICE_ROLE_KEY", "")
	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("SESSION_FETCH_TIMEOUT", "8s")
	viper.SetDefault("SHADOW_TTL", "24h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Falling back to the in-process completion shadow.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.AuthBaseURL = viper.GetString("AUTH_BASE_URL")
	cfg.AuthAnonKey = viper.GetString("AUTH_ANON_KEY")
	cfg.AuthServiceRoleKey = viper.GetString("AUTH_SERVICE_ROLE_KEY")
	cfg.JWTSecret = viper.GetString("AUTH_JWT_SECRET")
	if cfg.AuthBaseURL == "" {
		log.Println("Warning: AUTH_BASE_URL not set. Identity platform calls will fail.")
	}
	if cfg.JWTSecret == "" {
		log.Println("Warning: AUTH_JWT_SECRET not set. Bearer authentication will reject all tokens.")
	}
	if cfg.AuthServiceRoleKey == "" {
		log.Println("Warning: AUTH_SERVICE_ROLE_KEY not set. Admin identity lookups will not function.")
	}

	sessionFetchTimeoutStr := viper.GetString("SESSION_FETCH_TIMEOUT")
	sessionFetchTimeout, err := time.ParseDuration(sessionFetchTimeoutStr)
	if err != nil {
		sessionFetchTimeout = 8 * time.Second
		if sessionFetchTimeoutStr != "" {
			log.Printf("Warning: Invalid value for SESSION_FETCH_TIMEOUT ('%s'). Defaulting to %s.\n", sessionFetchTimeoutStr, sessionFetchTimeout)
		}
	}
	cfg.SessionFetchTimeout = sessionFetchTimeout

	shadowTTLStr := viper.GetString("SHADOW_TTL")
	shadowTTL, err := time.ParseDuration(shadowTTLStr)
	if err != nil {
		shadowTTL = 24 * time.Hour
		if shadowTTLStr != "" {
			log.Printf("Warning: Invalid value for SHADOW_TTL ('%s'). Defaulting to %s.\n", shadowTTLStr, shadowTTL)
		}
	}
	cfg.ShadowTTL = shadowTTL

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}
