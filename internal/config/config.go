package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from FERNSIDE_* environment
// variables.
type Config struct {
	// General
	Port     int    `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"fernside.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Web push (optional — generated and stored in settings when empty)
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`

	// Cloud sync (optional)
	SyncRemoteURL string `envconfig:"SYNC_REMOTE_URL"`
	SyncToken     string `envconfig:"SYNC_TOKEN"`

	// Encrypted backups to S3-compatible storage (optional)
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"auto"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// SyncEnabled reports whether a sync remote is configured.
func (c *Config) SyncEnabled() bool {
	return c.SyncRemoteURL != ""
}

// BackupEnabled reports whether S3 credentials are configured.
func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// Load reads configuration from FERNSIDE_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FERNSIDE", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}
