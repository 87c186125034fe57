package token_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/tenant-console/token"
	"github.com/stretchr/testify/require"
)

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestFromRequest(t *testing.T) {
	t.Run("no access cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: token.RefreshCookie, Value: "r1"})
		require.Nil(t, token.FromRequest(r))
	})

	t.Run("access only", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: token.AccessCookie, Value: "a1"})
		require.Equal(t, &token.Pair{AccessToken: "a1"}, token.FromRequest(r))
	})

	t.Run("both cookies", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: token.AccessCookie, Value: "a1"})
		r.AddCookie(&http.Cookie{Name: token.RefreshCookie, Value: "r1"})
		require.Equal(t, &token.Pair{AccessToken: "a1", RefreshToken: "r1"}, token.FromRequest(r))
	})
}

func TestSetCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	token.SetCookies(rec, token.Pair{AccessToken: "a2", RefreshToken: "r2"}, true)

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)
	for name, want := range map[string]string{token.AccessCookie: "a2", token.RefreshCookie: "r2"} {
		c := cookies[name]
		require.Equal(t, want, c.Value)
		require.Equal(t, "/", c.Path)
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
}

func TestClearCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	token.ClearCookies(rec, false)

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		require.Empty(t, c.Value)
		require.Equal(t, -1, c.MaxAge)
		require.False(t, c.Secure)
	}
}
