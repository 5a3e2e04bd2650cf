package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ReconnectGrace)
	assert.Equal(t, 100, cfg.RecentMessages)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.StorageEnabled())
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("RECONNECT_GRACE", "1500ms")
	t.Setenv("RECENT_MESSAGES", "20")
	t.Setenv("REQUIRE_IDENTITY", "true")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 1500*time.Millisecond, cfg.ReconnectGrace)
	assert.Equal(t, 20, cfg.RecentMessages)
	assert.True(t, cfg.RequireIdentity)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"privileged port", map[string]string{"PORT": "80"}},
		{"non numeric port", map[string]string{"PORT": "eighty"}},
		{"production without secret", map[string]string{"ENVIRONMENT": "production"}},
		{"zero grace", map[string]string{"RECONNECT_GRACE": "0s"}},
		{"zero buffer", map[string]string{"RECENT_MESSAGES": "0"}},
		{"partial s3", map[string]string{"S3_BUCKET_NAME": "files"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFullStorage(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "files")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.StorageEnabled())
}
