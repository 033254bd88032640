package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hospitofind")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "secret", cfg.RefreshSecret)
	require.Equal(t, 1, cfg.WorkerCount)
	require.Equal(t, "https://hospitofind.online", cfg.FrontendURL)
	require.Equal(t, []string{"https://hospitofind.online"}, cfg.AllowedOrigins)
	require.False(t, cfg.Production)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/hospitofind")
	_, err = Load()
	require.ErrorContains(t, err, "REDIS_ADDR")

	t.Setenv("REDIS_ADDR", "localhost:6379")
	_, err = Load()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("REFRESH_SECRET", "other")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("NODE_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, "other", cfg.RefreshSecret)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.True(t, cfg.Production)
}

func TestLoadInvalidNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKER_COUNT", "abc")
	_, err := Load()
	require.ErrorContains(t, err, "WORKER_COUNT")

	t.Setenv("WORKER_COUNT", "0")
	_, err = Load()
	require.ErrorContains(t, err, "WORKER_COUNT")

	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("REDIS_DB", "x")
	_, err = Load()
	require.ErrorContains(t, err, "REDIS_DB")
}
