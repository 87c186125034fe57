package users_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/tenant-console/api"
	"github.com/jrsteele09/tenant-console/cache"
	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/token"
	"github.com/jrsteele09/tenant-console/users"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newProfileBackend(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /acme/auth/me", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":false,"message":"Unauthorized"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"id":          "u-1",
				"username":    "ada",
				"permissions": []string{"domain/index"},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newLoader(t *testing.T, baseURL string) *users.ProfileLoader {
	t.Helper()
	client, err := api.New(api.Options{BaseURL: baseURL})
	require.NoError(t, err)
	return users.NewProfileLoader(client, cache.NewMemory(time.Minute), time.Minute)
}

func TestProfileLoader_Current(t *testing.T) {
	var calls atomic.Int32
	srv := newProfileBackend(t, &calls)
	loader := newLoader(t, srv.URL)
	ctx := context.Background()

	sess := sessions.New(httptest.NewRecorder(), "acme", &token.Pair{AccessToken: "good"}, false)

	u, err := loader.Current(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, "ada", u.Username)
	require.True(t, u.HasPermission("domain/index"))

	_, err = loader.Current(ctx, sess)
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load(), "second lookup is served from the cache")

	loader.Forget(ctx, sess)
	_, err = loader.Current(ctx, sess)
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

func TestProfileLoader_Anonymous(t *testing.T) {
	var calls atomic.Int32
	srv := newProfileBackend(t, &calls)
	loader := newLoader(t, srv.URL)

	u, err := loader.Current(context.Background(), sessions.New(httptest.NewRecorder(), "acme", nil, false))
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = loader.Current(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, u)
	require.EqualValues(t, 0, calls.Load())
}

func TestProfileLoader_Rejected(t *testing.T) {
	var calls atomic.Int32
	srv := newProfileBackend(t, &calls)
	loader := newLoader(t, srv.URL)

	sess := sessions.New(httptest.NewRecorder(), "acme", &token.Pair{AccessToken: "revoked"}, false)
	_, err := loader.Current(context.Background(), sess)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
}

func TestProfileLoader_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	loader := newLoader(t, url)

	sess := sessions.New(httptest.NewRecorder(), "acme", &token.Pair{AccessToken: "good"}, false)
	_, err := loader.Current(context.Background(), sess)
	require.ErrorIs(t, err, errors.ErrTransport)
}

// brokenStore fails every operation, as an unreachable Redis would
type brokenStore struct{}

var errStoreDown = stderrors.New("store down")

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errStoreDown }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error { return errStoreDown }
func (brokenStore) Delete(context.Context, string) error { return errStoreDown }

func TestProfileLoader_CacheFailuresUseRequestLogger(t *testing.T) {
	var calls atomic.Int32
	srv := newProfileBackend(t, &calls)
	client, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	loader := users.NewProfileLoader(client, brokenStore{}, time.Minute)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("request_id", "req-42").Logger()
	ctx := logger.WithContext(context.Background())

	sess := sessions.New(httptest.NewRecorder(), "acme", &token.Pair{AccessToken: "good"}, false)
	u, err := loader.Current(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, "ada", u.Username)
	loader.Forget(ctx, sess)

	out := buf.String()
	require.Contains(t, out, "Profile cache read failed")
	require.Contains(t, out, "Profile cache write failed")
	require.Contains(t, out, "Failed to drop cached profile")
	require.Equal(t, 3, bytes.Count(buf.Bytes(), []byte(`"request_id":"req-42"`)))
}
