package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/resources"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/tenants"
	"github.com/jrsteele09/tenant-console/token"
	"github.com/jrsteele09/tenant-console/users"
	"github.com/rs/zerolog"
)

// outcome is what the resolver does with a request
type outcome int

const (
	allow outcome = iota
	redirectToLogin
	jsonUnauthorized
)

type decision struct {
	outcome outcome
	// clearCookies expires the session cookies before responding
	clearCookies bool
}

var chatTemplateIndex = users.IndexPermission(resources.ChatTemplate)

// authorize classifies a request by path and session. Expiry is read from
// the unverified exp claim; with a refresh token the request goes through
// and the backend client refreshes on the first 401.
func authorize(path string, pair *token.Pair, now time.Time) decision {
	if isPublicPath(path) {
		return decision{outcome: allow}
	}

	deny := redirectToLogin
	if isAPIPath(path) {
		deny = jsonUnauthorized
	}

	if pair == nil {
		return decision{outcome: deny}
	}
	if token.Expired(pair.AccessToken, now) && !pair.HasRefresh() {
		return decision{outcome: deny, clearCookies: true}
	}
	return decision{outcome: allow}
}

// usable reports whether pair can still authenticate a backend call
func usable(pair *token.Pair, now time.Time) bool {
	return pair != nil && (pair.HasRefresh() || !token.Expired(pair.AccessToken, now))
}

func isStaticPath(path string) bool {
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isPublicPath(path string) bool {
	for _, p := range publicRoutes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, RouteAPIPrefix) || path == strings.TrimSuffix(RouteAPIPrefix, "/")
}

// TenantAuthMiddleware resolves the tenant from the Host header and the
// session from the cookies, then admits, redirects or rejects the request.
// Admitted requests carry a *sessions.Session in their context.
func (s *Server) TenantAuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isStaticPath(r.URL.Path) {
			next(w, r)
			return
		}

		logger := zerolog.Ctx(r.Context())
		tenant, err := tenants.Resolve(r.Host, s.config.IsDev())
		if err != nil {
			logger.Warn().Err(err).Str("host", r.Host).Msg("Tenant resolution failed")
			http.Error(w, "Tenant not found", http.StatusNotFound)
			return
		}
		logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("tenant", tenant)
		})

		secure := s.secureCookies(r)
		pair := token.FromRequest(r)
		d := authorize(r.URL.Path, pair, s.now())
		if d.clearCookies {
			token.ClearCookies(w, secure)
			pair = nil
		}

		switch d.outcome {
		case redirectToLogin:
			http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		case jsonUnauthorized:
			writeUnauthorized(w)
			return
		}

		sess := sessions.New(w, tenant, pair, secure)
		next(w, r.WithContext(sessions.WithSession(r.Context(), sess)))
	}
}

// RequirePermission rejects requests whose user lacks permission
func (s *Server) RequirePermission(permission string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.checkPermission(w, r, permission) {
				next(w, r)
			}
		}
	}
}

// RequireIndexPermission is RequirePermission for the "<resource>/index"
// permission of the resource named by the path value param
func (s *Server) RequireIndexPermission(param string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			resource := r.PathValue(param)
			if !resources.Known(resource) {
				writeJSONError(w, http.StatusNotFound, "Not Found", "Unknown resource")
				return
			}
			if s.checkPermission(w, r, users.IndexPermission(resource)) {
				next(w, r)
			}
		}
	}
}

func (s *Server) checkPermission(w http.ResponseWriter, r *http.Request, permission string) bool {
	sess, _ := sessions.FromContext(r.Context())
	user, err := s.profiles.Current(r.Context(), sess)
	switch {
	case errors.Is(err, errors.ErrTransport):
		writeConnectionError(w)
		return false
	case err != nil || user == nil:
		writeUnauthorized(w)
		return false
	case !user.HasPermission(permission):
		writeJSONError(w, http.StatusForbidden, "Forbidden", "Missing permission "+permission)
		return false
	}
	return true
}

func (s *Server) secureCookies(r *http.Request) bool {
	return s.config.SecureCookies() || getScheme(r) == "https"
}

func loginURL(original string) string {
	return RouteLogin + "?redirect=" + url.QueryEscape(original)
}
