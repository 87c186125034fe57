package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/resources"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/users"
	"github.com/rs/zerolog"
)

// sessionResponse mirrors what the browser needs to render the shell
type sessionResponse struct {
	Tenant          string      `json:"tenant"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *users.User `json:"user"`
}

// SessionHandler reports the tenant and the signed-in user, if any
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessions.FromContext(r.Context())

		var user *users.User
		if sess != nil && usable(sess.Token(), s.now()) {
			var err error
			user, err = s.profiles.Current(r.Context(), sess)
			switch {
			case errors.Is(err, errors.ErrTransport):
				writeConnectionError(w)
				return
			case errors.Is(err, errors.ErrUnauthenticated):
				user = nil
			case err != nil:
				zerolog.Ctx(r.Context()).Err(err).Msg("Failed to load profile")
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error":        true,
					"errorType":    "unknown",
					"errorMessage": "An unexpected error occurred",
				})
				return
			}
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Tenant:          tenantName(sess),
			IsAuthenticated: user != nil,
			User:            user,
		})
	}
}

// ResourceListHandler returns one page of a resource as {data, meta}
func (s *Server) ResourceListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessions.FromContext(r.Context())
		list, err := s.resources.List(r.Context(), sess, r.PathValue("resource"), r.URL.Query())
		if err != nil {
			writeResourceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// ResourceHandler returns a single resource as {data}
func (s *Server) ResourceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessions.FromContext(r.Context())
		data, err := s.resources.Get(r.Context(), sess, r.PathValue("resource"), r.PathValue("id"))
		if err != nil {
			writeResourceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": data})
	}
}

// DefaultChatTemplateHandler returns the default chat template of a domain
func (s *Server) DefaultChatTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessions.FromContext(r.Context())
		data, err := s.resources.DefaultChatTemplate(r.Context(), sess, r.PathValue("domainId"))
		if err != nil {
			writeResourceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": data})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

func writeResourceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *resources.StatusError
	switch {
	case errors.As(err, &se):
		if se.Status == http.StatusUnauthorized {
			writeUnauthorized(w)
			return
		}
		writeJSONError(w, se.Status, http.StatusText(se.Status), se.Message)
	case errors.Is(err, errors.ErrTransport):
		writeConnectionError(w)
	default:
		zerolog.Ctx(r.Context()).Err(err).Msg("Resource request failed")
		writeJSONError(w, http.StatusBadGateway, http.StatusText(http.StatusBadGateway), "Unexpected backend response")
	}
}
