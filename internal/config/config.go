// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"
)

// ConfigurationError reports a required environment variable that is unset.
// main treats it as fatal: the studio cannot run without its AI credentials.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: required environment variable %s is not set", e.Key)
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Gemini text generation
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	// Imagen image generation (Vertex AI)
	CloudProjectID string
	CloudRegion    string
	CloudAPIKey    string   // defaults to GeminiKey when unset
	ImagenModels   []string // ordered fallback chain; empty means built-in default

	// Valkey session backend (optional; in-memory store when host is unset)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
}

// Load reads configuration from environment variables, applying defaults
// where appropriate. The Gemini API key and cloud project ID have no sane
// default, so a missing value is a ConfigurationError.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		CloudProjectID: os.Getenv("GOOGLE_CLOUD_PROJECT_ID"),
		CloudRegion:    envOrDefault("GOOGLE_CLOUD_REGION", "us-central1"),
		CloudAPIKey:    os.Getenv("GOOGLE_CLOUD_API_KEY"),
		ImagenModels:   splitList(os.Getenv("IMAGEN_MODELS")),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	if cfg.GeminiKey == "" {
		return nil, &ConfigurationError{Key: "GEMINI_API_KEY"}
	}
	if cfg.CloudProjectID == "" {
		return nil, &ConfigurationError{Key: "GOOGLE_CLOUD_PROJECT_ID"}
	}

	// The Vertex endpoint accepts the same Google API key as Gemini.
	if cfg.CloudAPIKey == "" {
		cfg.CloudAPIKey = cfg.GeminiKey
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasValkey reports whether a Valkey session backend is configured.
func (c *Config) HasValkey() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated env value into a clean slice.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
