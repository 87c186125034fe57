package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Pair is the session credential held in the browser cookies. An empty
// RefreshToken means the session cannot be refreshed.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// HasRefresh reports whether a refresh token is available
func (p *Pair) HasRefresh() bool {
	return p != nil && strings.TrimSpace(p.RefreshToken) != ""
}

// Expired is the advisory expiry check on the access token
func (p *Pair) Expired() bool {
	if p == nil {
		return true
	}
	return Expired(p.AccessToken, NowTimeFunc())
}

// OAuth2 returns the access token as a bearer oauth2.Token. Expiry is taken
// from the unverified exp claim and is zero when it cannot be read.
func (p *Pair) OAuth2() *oauth2.Token {
	if p == nil {
		return nil
	}
	tok := &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := ExpiresAt(p.AccessToken); ok {
		tok.Expiry = exp
	}
	return tok
}

// ExpiresAt decodes the exp claim of a JWT shaped token without verifying
// its signature. The backend stays the only authority on token validity.
func ExpiresAt(raw string) (time.Time, bool) {
	claims := &jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether raw should be treated as expired at now. Tokens
// that are not three dot separated segments, have an undecodable payload or
// no exp claim are expired.
func Expired(raw string, now time.Time) bool {
	exp, ok := ExpiresAt(raw)
	if !ok {
		return true
	}
	return !now.Before(exp)
}
