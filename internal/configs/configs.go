/*
Package configs is responsible for loading and parsing the application's configuration settings.

Settings come from environment variables: running environment, port, CORS allowed origins,
identity token secret, reconnect grace window, recent-message capacity and the optional
S3-compatible attachment store.
*/
package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// EnvDevelopment is the default environment; it relaxes origin checks and secrets.
	EnvDevelopment = "development"

	devJWTSecret = "your_default_insecure_secret_key_change_me"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL"`

	// Security Settings
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	JWTSecret       string   `env:"JWT_SECRET"`
	RequireIdentity bool     `env:"REQUIRE_IDENTITY" envDefault:"false"`

	// Presence Settings
	ReconnectGrace time.Duration `env:"RECONNECT_GRACE" envDefault:"3s"`
	RecentMessages int           `env:"RECENT_MESSAGES" envDefault:"100"`

	// S3 Storage Settings (optional; attachments are disabled without a bucket)
	S3BucketName      string `env:"S3_BUCKET_NAME"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// StorageEnabled reports whether attachment storage is configured.
func (c *AppConfig) StorageEnabled() bool {
	return c.S3BucketName != ""
}

// LoadConfig reads and parses the application configuration from environment variables,
// applies defaults and validates the result.
func LoadConfig() (*AppConfig, error) {
	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) normalize() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", c.Port, 1024, 65535)
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins

	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", c.Environment)
		}
		c.JWTSecret = devJWTSecret
	}

	if c.ReconnectGrace <= 0 {
		return fmt.Errorf("RECONNECT_GRACE must be positive, got %s", c.ReconnectGrace)
	}

	if c.RecentMessages <= 0 {
		return fmt.Errorf("RECENT_MESSAGES must be positive, got %d", c.RecentMessages)
	}

	if c.StorageEnabled() {
		missing := []string{}
		if c.S3Endpoint == "" {
			missing = append(missing, "S3_ENDPOINT")
		}
		if c.S3AccessKeyID == "" {
			missing = append(missing, "S3_ACCESS_KEY_ID")
		}
		if c.S3SecretAccessKey == "" {
			missing = append(missing, "S3_SECRET_ACCESS_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("S3_BUCKET_NAME is set but %s missing", strings.Join(missing, ", "))
		}
	}

	return nil
}
