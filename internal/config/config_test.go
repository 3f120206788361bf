package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "unit-test-secret-key-0123456789abcdef")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshExpiry)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, "none", cfg.Auth.CookieSameSite)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Session.SweepInterval)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresDBPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret-key-0123456789abcdef")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsShortSecretInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "short-but-over-16-chars")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownSessionStore(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_STORE", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_CookieSecureDefaultsOnInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret-key-0123456789abcdef")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.Server.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Name:     "storefront",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=storefront sslmode=disable",
		cfg.DSN())
}
