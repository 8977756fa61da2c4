package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string
	DatabaseURL    string
	RedisURL       string

	// Identity provider (Supabase-style GoTrue API)
	IdentityURL        string
	IdentityAnonKey    string
	IdentityServiceKey string
	IdentityJWTSecret  string

	// OAuth sign-in passthrough
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string

	// Domain used for synthesized demo user emails
	DemoEmailDomain string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigins:     parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Environment:        getEnv("ENVIRONMENT", "production"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		IdentityURL:        getEnv("IDENTITY_URL", ""),
		IdentityAnonKey:    getEnv("IDENTITY_ANON_KEY", ""),
		IdentityServiceKey: getEnv("IDENTITY_SERVICE_KEY", ""),
		IdentityJWTSecret:  getEnv("IDENTITY_JWT_SECRET", ""),
		OAuthClientID:      getEnv("OAUTH_CLIENT_ID", ""),
		OAuthClientSecret:  getEnv("OAUTH_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("OAUTH_REDIRECT_URL", ""),
		DemoEmailDomain:    getEnv("DEMO_EMAIL_DOMAIN", "amora.app"),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
