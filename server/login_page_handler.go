package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	signinEndpoint = "auth/signin"

	minUsernameLength = 4
	minPasswordLength = 8
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName  string
	Tenant   string
	Error    string
	Username string // Preserve username on error
	Redirect string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Redirect string `json:"redirect,omitempty"`
}

func (l loginRequest) validate() string {
	if utf8.RuneCountInString(strings.TrimSpace(l.Username)) < minUsernameLength {
		return "Username length is at least 4"
	}
	if utf8.RuneCountInString(l.Password) < minPasswordLength {
		return "Password length is at least 8"
	}
	return ""
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessions.FromContext(r.Context())
		if sess != nil && usable(sess.Token(), s.now()) {
			http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
			return
		}

		s.renderLogin(w, http.StatusOK, LoginPageData{
			Tenant:   tenantName(sess),
			Error:    r.URL.Query().Get("error"),
			Redirect: safeRedirect(r.URL.Query().Get("redirect")),
		})
	}
}

// LoginSubmissionHandler signs the user in against the tenant's backend and
// stores the returned token pair in the session cookies.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessions.FromContext(r.Context())
		if !ok {
			http.Error(w, "Tenant not found", http.StatusNotFound)
			return
		}
		logger := zerolog.Ctx(r.Context())
		asJSON := wantsJSON(r)

		req, err := readLoginRequest(r)
		if err != nil {
			s.loginFailed(w, asJSON, http.StatusBadRequest, "Invalid form data", req, sess)
			return
		}
		if msg := req.validate(); msg != "" {
			s.loginFailed(w, asJSON, http.StatusBadRequest, msg, req, sess)
			return
		}

		// Sign in without the stale credentials the browser may still send
		anonymous := sessions.New(nil, sess.Tenant, nil, false)
		resp, err := s.client.Post(r.Context(), anonymous, signinEndpoint, map[string]string{
			"username": strings.TrimSpace(req.Username),
			"password": req.Password,
		})
		if err != nil {
			logger.Err(err).Msg("Login: backend unreachable")
			s.loginFailed(w, asJSON, http.StatusBadGateway, connectionErrorMessage, req, sess)
			return
		}

		env, envErr := resp.Envelope()
		if envErr != nil || env.Failed() || !resp.OK {
			status := resp.Status
			if resp.OK {
				status = http.StatusUnauthorized
			}
			msg := "Login failed"
			if envErr == nil {
				msg = env.ErrorMessage(msg)
			}
			s.loginFailed(w, asJSON, status, msg, req, sess)
			return
		}

		var pair token.Pair
		if err := env.DecodeData(&pair); err != nil || pair.AccessToken == "" {
			logger.Error().Err(err).Msg("Login: signin response carried no access token")
			s.loginFailed(w, asJSON, http.StatusBadGateway, "Login failed", req, sess)
			return
		}
		sess.Update(pair)

		target := safeRedirect(req.Redirect)
		if asJSON {
			writeJSON(w, http.StatusOK, map[string]any{"status": true, "redirect": target})
			return
		}
		redirectSuccess(w, r, target)
	}
}

// LogoutHandler drops the session and returns to the login page
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := sessions.FromContext(r.Context()); ok {
			s.profiles.Forget(r.Context(), sess)
			sess.Clear()
		} else {
			token.ClearCookies(w, s.secureCookies(r))
		}
		redirectSuccess(w, r, RouteLogin)
	}
}

func readLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeJSON) {
		err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	req.Redirect = r.PostFormValue("redirect")
	return req, nil
}

// loginFailed answers a failed sign in: the envelope style error for JSON
// callers, the login form with the error otherwise.
func (s *Server) loginFailed(w http.ResponseWriter, asJSON bool, status int, msg string, req loginRequest, sess *sessions.Session) {
	if asJSON {
		writeJSON(w, status, map[string]any{"status": false, "message": msg})
		return
	}
	s.renderLogin(w, status, LoginPageData{
		Tenant:   tenantName(sess),
		Error:    msg,
		Username: req.Username,
		Redirect: safeRedirect(req.Redirect),
	})
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, data LoginPageData) {
	data.AppName = s.config.GetAppName()
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := loginTemplate.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
	}
}

func tenantName(sess *sessions.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Tenant
}
