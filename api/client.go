// Package api is the console's only way to reach the backend REST API. It
// scopes every endpoint to the request's tenant, attaches the session bearer
// token, and recovers from 401 responses by refreshing the session once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/tenants"
	"github.com/jrsteele09/tenant-console/token"
)

const (
	// maxRetries bounds how many times one call is replayed after a refresh
	maxRetries = 1

	defaultTimeout        = 15 * time.Second
	defaultRefreshTimeout = 10 * time.Second
	defaultRefreshGrace   = 30 * time.Second
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client

	// Timeout bounds each primary call, RefreshTimeout the shared refresh call
	Timeout        time.Duration
	RefreshTimeout time.Duration
	// RefreshGrace is how long a consumed refresh token keeps resolving to
	// the pair it was exchanged for
	RefreshGrace time.Duration
}

// Client is safe for concurrent use by all request handlers of the process
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	refresher  *refresher
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("[api New] base URL: %w", errors.ErrMissingConfig)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    orDefault(opts.Timeout, defaultTimeout),
	}
	c.refresher = newRefresher(c, orDefault(opts.RefreshTimeout, defaultRefreshTimeout), orDefault(opts.RefreshGrace, defaultRefreshGrace))
	return c, nil
}

// BuildURL scopes endpoint to tenant: base/api/{endpoint} for the main
// tenant, base/{tenant}/{endpoint} otherwise.
func (c *Client) BuildURL(tenant, endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "/")
	if tenants.IsMain(tenant) {
		return c.baseURL + "/api/" + endpoint
	}
	return c.baseURL + "/" + tenant + "/" + endpoint
}

// Do calls the backend on behalf of sess. body is sent as JSON unless it is
// nil; []byte and json.RawMessage are sent as is.
//
// A transport failure is returned as *errors.TransportError. Every HTTP
// outcome, including 4xx/5xx, is returned as a Response. A 401 with a
// refresh token in the session triggers one shared refresh and one retry;
// when the refresh fails the original 401 is returned.
func (c *Client) Do(ctx context.Context, sess *sessions.Session, method, endpoint string, body any) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("[api Do] encode %s body: %w", endpoint, err)
	}

	var pair *token.Pair
	if sess != nil {
		pair = sess.Token()
	}
	return c.do(ctx, sess, method, endpoint, payload, pair, maxRetries)
}

func (c *Client) do(ctx context.Context, sess *sessions.Session, method, endpoint string, payload []byte, pair *token.Pair, retries int) (*Response, error) {
	url := c.BuildURL(tenantOf(sess), endpoint)
	resp, err := c.send(ctx, method, url, payload, pair)
	if err != nil {
		return nil, err
	}

	if resp.Status != http.StatusUnauthorized || retries <= 0 || !pair.HasRefresh() {
		return resp, nil
	}

	refreshed := c.Refresh(ctx, sess, pair.RefreshToken)
	if refreshed == nil {
		return resp, nil
	}
	return c.do(ctx, sess, method, endpoint, payload, refreshed, retries-1)
}

func (c *Client) Get(ctx context.Context, sess *sessions.Session, endpoint string) (*Response, error) {
	return c.Do(ctx, sess, http.MethodGet, endpoint, nil)
}

func (c *Client) Post(ctx context.Context, sess *sessions.Session, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, sess, http.MethodPost, endpoint, body)
}

func (c *Client) Put(ctx context.Context, sess *sessions.Session, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, sess, http.MethodPut, endpoint, body)
}

func (c *Client) Patch(ctx context.Context, sess *sessions.Session, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, sess, http.MethodPatch, endpoint, body)
}

func (c *Client) Delete(ctx context.Context, sess *sessions.Session, endpoint string) (*Response, error) {
	return c.Do(ctx, sess, http.MethodDelete, endpoint, nil)
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte, pair *token.Pair) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("[api send] build %s %s: %w", method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if pair != nil && pair.AccessToken != "" {
		pair.OAuth2().SetAuthHeader(req)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(method, "error", start)
		return nil, &errors.TransportError{Op: method, URL: url, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		observeRequest(method, "error", start)
		return nil, &errors.TransportError{Op: method, URL: url, Err: err}
	}
	observeRequest(method, statusLabel(res.StatusCode), start)
	return newResponse(res, raw), nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		return json.Marshal(b)
	}
}

func tenantOf(sess *sessions.Session) string {
	if sess == nil || sess.Tenant == "" {
		return tenants.Main
	}
	return sess.Tenant
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
