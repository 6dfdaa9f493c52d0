// Package config handles loading and validation of gateway
// configuration. Supports both development (env vars) and production
// (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all gateway configuration. Environment determines
// whether storefront settings load from env vars (development) or
// Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string

	// StorefrontID names the storefront this gateway instance serves.
	// In production it doubles as the Secret Manager secret name.
	StorefrontID string

	// Storefront-specific configuration (loaded from secrets)
	Storefront StorefrontConfig
}

// StorefrontConfig contains storefront-specific settings. In
// production, this is loaded from Secret Manager as JSON. In
// development, from individual env vars or CONFIG_FILE.
type StorefrontConfig struct {
	BackendURL string `json:"backend_url"`

	// GatewayKey authenticates the gateway to the backend's trusted
	// endpoints, when the backend requires it. Optional.
	GatewayKey string `json:"gateway_key,omitempty"`

	// StatePath is where the gateway keeps its local state database.
	// Defaults to <storefront_id>.db in the working directory.
	StatePath string `json:"state_path,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set), then env vars / Secret Manager.
func Load(ctx context.Context) (*Config, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:         envOrDefault("PORT", "8600"),
		Environment:  envOrDefault("ENVIRONMENT", "development"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		GCPProject:   os.Getenv("GCP_PROJECT"),
		StorefrontID: os.Getenv("STOREFRONT_ID"),
	}

	if cfg.StorefrontID == "" {
		return nil, fmt.Errorf("STOREFRONT_ID environment variable required")
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading storefront config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file. Used for local
// development to avoid juggling env vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port         string           `json:"port"`
		Environment  string           `json:"environment"`
		LogLevel     string           `json:"log_level"`
		StorefrontID string           `json:"storefront_id"`
		Storefront   StorefrontConfig `json:"storefront"`
	}
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:         withDefault(fileConfig.Port, "8600"),
		Environment:  withDefault(fileConfig.Environment, "development"),
		LogLevel:     withDefault(fileConfig.LogLevel, "info"),
		StorefrontID: fileConfig.StorefrontID,
		Storefront:   fileConfig.Storefront,
	}
	if cfg.StorefrontID == "" {
		return nil, fmt.Errorf("storefront_id is required")
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromSecretManager fetches storefront config from GCP Secret
// Manager. Secret name format:
// projects/{project}/secrets/{storefront_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.StorefrontID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Storefront); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

// loadFromEnv reads storefront config from individual environment
// variables. Used in development mode.
func (c *Config) loadFromEnv() error {
	c.Storefront = StorefrontConfig{
		BackendURL: os.Getenv("BACKEND_URL"),
		GatewayKey: os.Getenv("GATEWAY_KEY"),
		StatePath:  os.Getenv("STATE_PATH"),
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Storefront.StatePath == "" {
		c.Storefront.StatePath = filepath.Join(".", c.StorefrontID+".db")
	}
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Storefront.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.Storefront.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url must be http or https")
	}
	return nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// envOrDefault returns the environment variable value or the default if
// not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
