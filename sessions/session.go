package sessions

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/tenant-console/token"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the per-request state shared between the tenant/auth middleware
// and the backend client: resolved tenant, current token pair and the
// response the session cookies are written to. It belongs to one inbound
// request and must not outlive it.
type Session struct {
	Tenant string

	secure bool
	w      http.ResponseWriter

	mu    sync.Mutex
	token *token.Pair
}

// New creates a session for one request. pair may be nil (unauthenticated).
func New(w http.ResponseWriter, tenant string, pair *token.Pair, secure bool) *Session {
	s := &Session{Tenant: tenant, secure: secure, w: w}
	if pair != nil {
		p := *pair
		s.token = &p
	}
	return s
}

// Token returns a copy of the current token pair, or nil
func (s *Session) Token() *token.Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil
	}
	p := *s.token
	return &p
}

// Authenticated reports whether the session holds an access token
func (s *Session) Authenticated() bool {
	return s.Token() != nil
}

// Update replaces the token pair and writes both session cookies so the
// rest of the response cycle sees the new tokens.
func (s *Session) Update(p token.Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &p
	if s.w != nil {
		token.SetCookies(s.w, p, s.secure)
	}
}

// Clear drops the token pair and expires both session cookies
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	if s.w != nil {
		token.ClearCookies(s.w, s.secure)
	}
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
