package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnSharedSignalChannel(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend.example.com")
	t.Setenv("PORT", "0")
	t.Setenv("ENV", "TEST")
	t.Setenv("CACHE_DRIVER", "memory")

	stop := make(chan os.Signal, 2)

	// two runs, as after a panic restart, drain the same channel
	for i := 0; i < 2; i++ {
		stop <- os.Interrupt
		done := make(chan error, 1)
		go func() { done <- run(stop) }()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("run did not stop")
		}
	}
}

func TestLoadEnv(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	require.NoError(t, loadEnv(missing, false))
	require.Error(t, loadEnv(missing, true))

	path := filepath.Join(t.TempDir(), "console.env")
	require.NoError(t, os.WriteFile(path, []byte("CONSOLE_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("CONSOLE_TEST_VAR", "")
	require.NoError(t, os.Unsetenv("CONSOLE_TEST_VAR"))
	require.NoError(t, loadEnv(path, true))
	require.Equal(t, "from-file", os.Getenv("CONSOLE_TEST_VAR"))
}
