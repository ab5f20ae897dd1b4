package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.DatabaseURL)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "booking.events", cfg.EventsQueue)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.UsesS3())
	assert.Same(t, cfg, GetConfig(), "Load should remember the loaded config")
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoad_InvalidNumbersFallBackToDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: ":memory:", JWTSecret: "", TokenTTL: time.Hour}
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")

	cfg.JWTSecret = "secret"
	cfg.TokenTTL = 0
	assert.EqualError(t, cfg.Validate(), "TOKEN_TTL must be positive")

	cfg.TokenTTL = time.Hour
	assert.NoError(t, cfg.Validate())
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.True(t, (&Config{AWSS3Bucket: "bucket"}).UsesS3())
}

func TestConnectRedis_EmptyURL(t *testing.T) {
	client, err := ConnectRedis("")
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := ConnectRedis("not-a-redis-url")
	assert.Error(t, err)
}
