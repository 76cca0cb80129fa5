package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "config-test-secret-with-enough-length!!"

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKHIVE_DATABASE_URL", "postgres://localhost:5432/taskhive_test")
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", testJWTSecret)
}

func TestLoad(t *testing.T) {
	t.Run("loads from environment with defaults", func(t *testing.T) {
		validEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, "postgres://localhost:5432/taskhive_test", cfg.Database.URL)
		assert.Equal(t, testJWTSecret, cfg.Auth.JWTSecret)
		assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		validEnv(t)
		t.Setenv("TASKHIVE_SERVER_PORT", "9090")
		t.Setenv("TASKHIVE_SERVER_LOG_LEVEL", "debug")
		t.Setenv("TASKHIVE_AUTH_TOKEN_LIFETIME_MINUTES", "15")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, 15, cfg.Auth.TokenLifetimeMinutes)
	})

	t.Run("missing database URL fails validation", func(t *testing.T) {
		t.Setenv("TASKHIVE_AUTH_JWT_SECRET", testJWTSecret)
		t.Setenv("TASKHIVE_DATABASE_URL", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short jwt secret fails validation", func(t *testing.T) {
		t.Setenv("TASKHIVE_DATABASE_URL", "postgres://localhost:5432/taskhive_test")
		t.Setenv("TASKHIVE_AUTH_JWT_SECRET", "too-short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		validEnv(t)
		t.Setenv("TASKHIVE_SERVER_LOG_LEVEL", "verbose")

		_, err := Load()
		assert.Error(t, err)
	})
}
