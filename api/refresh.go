package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/token"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const refreshEndpoint = "auth/refresh"

// refresher coordinates token refreshes for the whole process.
//
// Concurrent callers presenting the same refresh token join one in-flight
// exchange through the singleflight group, whose slot is released on every
// outcome. Exchanges for different sessions queue on a single-permit
// semaphore, so at most one refresh call is on the wire at any instant.
type refresher struct {
	client  *Client
	timeout time.Duration

	flights singleflight.Group
	wire    *semaphore.Weighted
	// recent maps consumed refresh tokens to the pair they were exchanged for
	recent *gocache.Cache
}

func newRefresher(c *Client, timeout, grace time.Duration) *refresher {
	return &refresher{
		client:  c,
		timeout: timeout,
		wire:    semaphore.NewWeighted(1),
		recent:  gocache.New(grace, time.Minute),
	}
}

// Refresh exchanges refreshToken for a new token pair and applies the
// outcome to sess: the new pair and cookies on success, cleared token and
// cookies on failure. A nil result means the session could not be
// refreshed and must be treated as unauthenticated; it is never retryable.
// A caller whose ctx ends while waiting gets nil but keeps its session: the
// shared exchange carries on for the other callers.
func (c *Client) Refresh(ctx context.Context, sess *sessions.Session, refreshToken string) *token.Pair {
	tenant := tenantOf(sess)
	pair, err := c.refresher.exchange(ctx, tenant, refreshToken)
	if err != nil && ctx.Err() != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("tenant", tenant).Msg("Gave up waiting for token refresh")
		return nil
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("tenant", tenant).Msg("Token refresh failed")
		if sess != nil {
			sess.Clear()
		}
		return nil
	}
	if sess != nil {
		sess.Update(*pair)
	}
	return pair
}

func (r *refresher) exchange(ctx context.Context, tenant, refreshToken string) (*token.Pair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("[api refresh] no refresh token: %w", errors.ErrRefreshFailed)
	}

	key := tenant + "\x00" + refreshToken
	if v, ok := r.recent.Get(key); ok {
		observeRefresh("reused")
		p := v.(token.Pair)
		return &p, nil
	}

	// The shared call is detached from the caller that happens to start it:
	// its cancellation must not fail every waiter.
	shared := context.WithoutCancel(ctx)
	ch := r.flights.DoChan(key, func() (interface{}, error) {
		// A flight that finished between the lookup above and DoChan has
		// already consumed this refresh token
		if v, ok := r.recent.Get(key); ok {
			observeRefresh("reused")
			return v.(token.Pair), nil
		}

		callCtx, cancel := context.WithTimeout(shared, r.timeout)
		defer cancel()

		if err := r.wire.Acquire(callCtx, 1); err != nil {
			return nil, &errors.TransportError{Op: http.MethodPost, URL: refreshEndpoint, Err: err}
		}
		defer r.wire.Release(1)

		observeRefresh("started")
		pair, err := r.call(callCtx, tenant, refreshToken)
		if err != nil {
			observeRefresh("failed")
			return nil, err
		}
		observeRefresh("succeeded")
		r.recent.SetDefault(key, *pair)
		return *pair, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := res.Val.(token.Pair)
		return &p, nil
	case <-ctx.Done():
		return nil, &errors.TransportError{Op: http.MethodPost, URL: refreshEndpoint, Err: ctx.Err()}
	}
}

func (r *refresher) call(ctx context.Context, tenant, refreshToken string) (*token.Pair, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}

	resp, err := r.client.send(ctx, http.MethodPost, r.client.BuildURL(tenant, refreshEndpoint), body, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("[api refresh] backend status %d: %w", resp.Status, errors.ErrRefreshFailed)
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, fmt.Errorf("[api refresh] %v: %w", err, errors.ErrRefreshFailed)
	}
	if env.Failed() {
		return nil, fmt.Errorf("[api refresh] %s: %w", env.ErrorMessage("rejected"), errors.ErrRefreshFailed)
	}

	var pair token.Pair
	if err := env.DecodeData(&pair); err != nil || pair.AccessToken == "" {
		return nil, fmt.Errorf("[api refresh] missing access token: %w", errors.ErrRefreshFailed)
	}
	// Backends that do not rotate refresh tokens omit it
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	return &pair, nil
}
