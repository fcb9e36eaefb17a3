package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	SupabaseURL       string        // Project base URL (https://<ref>.supabase.co)
	ServiceRoleKey    string        // Service-role API key, used for admin and data calls
	JWTSecret         string        // Project JWT secret; enables /api/auth/me when set
	Port              string        // Service port
	FrontendURL       string        // CORS allow-origin; empty allows all
	UpstreamTimeout   time.Duration // Per-call timeout for platform requests
	RefCacheTTL       time.Duration // TTL for cached reference-code lookups
	EmailFilterLookup bool          // Use the admin filtered listing for check-email
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	config := &Config{
		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		ServiceRoleKey:    getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		JWTSecret:         getEnv("SUPABASE_JWT_SECRET", ""),
		Port:              getEnv("PORT", "3000"),
		FrontendURL:       getEnv("FRONTEND_URL", ""),
		UpstreamTimeout:   5 * time.Second,
		RefCacheTTL:       5 * time.Minute,
		EmailFilterLookup: getEnv("SUPABASE_EMAIL_FILTER_LOOKUP", "true") == "true",
	}

	// Parse SUPABASE_TIMEOUT if provided
	if timeoutStr := os.Getenv("SUPABASE_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SUPABASE_TIMEOUT format: %w", err)
		}
		config.UpstreamTimeout = duration
	}

	// Parse REF_CACHE_TTL if provided
	if ttlStr := os.Getenv("REF_CACHE_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REF_CACHE_TTL format: %w", err)
		}
		config.RefCacheTTL = duration
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL cannot be empty")
	}

	if c.ServiceRoleKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("SUPABASE_TIMEOUT must be positive")
	}

	if c.RefCacheTTL <= 0 {
		return fmt.Errorf("REF_CACHE_TTL must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	// Check for _FILE suffix (container secrets)
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
