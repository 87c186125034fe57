package token

import (
	"net/http"
	"strings"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// FromRequest reads the session cookies. It returns nil when there is no
// access token: the request is unauthenticated.
func FromRequest(r *http.Request) *Pair {
	access, err := r.Cookie(AccessCookie)
	if err != nil || strings.TrimSpace(access.Value) == "" {
		return nil
	}
	pair := &Pair{AccessToken: access.Value}
	if refresh, err := r.Cookie(RefreshCookie); err == nil {
		pair.RefreshToken = refresh.Value
	}
	return pair
}

// SetCookies writes both session cookies. An empty refresh token deletes the
// refresh cookie rather than storing an empty value.
func SetCookies(w http.ResponseWriter, p Pair, secure bool) {
	http.SetCookie(w, sessionCookie(AccessCookie, p.AccessToken, secure, 0))
	if p.RefreshToken == "" {
		http.SetCookie(w, sessionCookie(RefreshCookie, "", secure, -1))
		return
	}
	http.SetCookie(w, sessionCookie(RefreshCookie, p.RefreshToken, secure, 0))
}

// ClearCookies expires both session cookies
func ClearCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, sessionCookie(AccessCookie, "", secure, -1))
	http.SetCookie(w, sessionCookie(RefreshCookie, "", secure, -1))
}

func sessionCookie(name, value string, secure bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
}
