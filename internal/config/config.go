// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"
)

// Config holds all configuration values for the reservation server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of origins allowed to call the JSON API.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend picks the reservation store: "postgres" (default) or "postgrest".
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for the postgres backend.
	DatabaseURL string

	// SupabaseURL and SupabaseAnonKey address the hosted REST store.
	// Both are required for the postgrest backend.
	SupabaseURL     string
	SupabaseAnonKey string

	// MigrateOnStart applies pending migrations before serving. Postgres only.
	MigrateOnStart bool

	// MaxBodyBytes caps request body size. Defaults to 64 KiB.
	MaxBodyBytes int64

	// RedisURL, when set, shares refresh signals between replicas.
	RedisURL string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		RedisURL:        os.Getenv("REDIS_URL"),
	}

	var err error
	if cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false")); err != nil {
		return Config{}, fmt.Errorf("MIGRATE_ON_START: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer")
	}

	var missing []string
	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendPostgREST:
		if cfg.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if cfg.SupabaseAnonKey == "" {
			missing = append(missing, "SUPABASE_ANON_KEY")
		}
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND %q is not one of %s, %s", cfg.StoreBackend, BackendPostgres, BackendPostgREST)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
