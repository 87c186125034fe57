package users

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/tenant-console/api"
	"github.com/jrsteele09/tenant-console/cache"
	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/rs/zerolog"
)

const meEndpoint = "auth/me"

// ProfileLoader fetches the current user from the backend and caches it per
// access token, so a page load that needs the profile several times only
// costs one backend call.
type ProfileLoader struct {
	client *api.Client
	store  cache.Store
	ttl    time.Duration
}

func NewProfileLoader(client *api.Client, store cache.Store, ttl time.Duration) *ProfileLoader {
	return &ProfileLoader{client: client, store: store, ttl: ttl}
}

// Current returns the signed-in user of sess, or nil for an anonymous
// session. ErrUnauthenticated means the backend rejected the session even
// after a refresh attempt; transport failures are returned as is.
func (l *ProfileLoader) Current(ctx context.Context, sess *sessions.Session) (*User, error) {
	if sess == nil || !sess.Authenticated() {
		return nil, nil
	}

	if u, ok := l.cached(ctx, sess); ok {
		return u, nil
	}

	resp, err := l.client.Get(ctx, sess, meEndpoint)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		return nil, errors.Wrapf(errors.ErrUnauthenticated, "[users Current] backend status %d", resp.Status)
	}
	if !resp.OK {
		return nil, fmt.Errorf("[users Current] backend status %d", resp.Status)
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, errors.Wrapf(err, "[users Current]")
	}
	if env.Failed() {
		return nil, errors.Wrapf(errors.ErrUnauthenticated, "[users Current] %s", env.ErrorMessage("profile rejected"))
	}

	var u User
	if err := env.DecodeData(&u); err != nil {
		return nil, errors.Wrapf(err, "[users Current]")
	}

	// the call may have refreshed the session, so key by the token now held
	if err := l.store.Set(ctx, l.key(sess), env.Data, l.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Profile cache write failed")
	}
	return &u, nil
}

// Forget drops the cached profile of sess
func (l *ProfileLoader) Forget(ctx context.Context, sess *sessions.Session) {
	if sess == nil || !sess.Authenticated() {
		return
	}
	if err := l.store.Delete(ctx, l.key(sess)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to drop cached profile")
	}
}

func (l *ProfileLoader) cached(ctx context.Context, sess *sessions.Session) (*User, bool) {
	raw, ok, err := l.store.Get(ctx, l.key(sess))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Profile cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, false
	}
	return &u, true
}

// key never stores the raw bearer token in the cache
func (l *ProfileLoader) key(sess *sessions.Session) string {
	pair := sess.Token()
	access := ""
	if pair != nil {
		access = pair.AccessToken
	}
	sum := sha256.Sum256([]byte(sess.Tenant + "\x00" + access))
	return "profile:" + hex.EncodeToString(sum[:])
}
