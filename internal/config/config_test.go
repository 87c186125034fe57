package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/tenant-console/internal/config"
	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("missing base url is fatal", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")
		t.Setenv("VITE_API_BASE_URL", "")
		_, err := config.New()
		require.ErrorIs(t, err, errors.ErrMissingConfig)
	})

	t.Run("vite variable is accepted", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")
		t.Setenv("VITE_API_BASE_URL", "https://backend.example.com/")
		c, err := config.New()
		require.NoError(t, err)
		require.Equal(t, "https://backend.example.com", c.GetAPIBaseURL())
	})
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "")
	t.Setenv("API_TIMEOUT", "not-a-duration")
	t.Setenv("REFRESH_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, ":9000", c.GetPort())
	require.True(t, c.IsDev())
	require.False(t, c.SecureCookies())
	require.Equal(t, 15*time.Second, c.GetAPITimeout())
	require.Equal(t, 3*time.Second, c.GetRefreshTimeout())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.Equal(t, "memory", c.GetCacheDriver())

	t.Setenv("ENV", "prod")
	require.True(t, c.SecureCookies())
}
