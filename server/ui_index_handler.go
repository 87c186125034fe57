package server

import (
	"net/http"

	"github.com/jrsteele09/tenant-console/internal/errors"
	"github.com/jrsteele09/tenant-console/resources"
	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/users"
	"github.com/rs/zerolog"
)

type indexPageData struct {
	AppName   string
	Tenant    string
	User      *users.User
	Resources []string
	Error     string
}

// IndexHandler renders the home page with the resources the user may list
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sessions.FromContext(r.Context())
		data := indexPageData{
			AppName: s.config.GetAppName(),
			Tenant:  tenantName(sess),
		}

		user, err := s.profiles.Current(r.Context(), sess)
		switch {
		case errors.Is(err, errors.ErrTransport):
			data.Error = connectionErrorMessage
		case errors.Is(err, errors.ErrUnauthenticated):
			http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		case err != nil:
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to load profile")
			data.Error = "An unexpected error occurred"
		}

		data.User = user
		for _, name := range resources.Names {
			if user.HasPermission(users.IndexPermission(name)) {
				data.Resources = append(data.Resources, name)
			}
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := indexTemplate.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("Failed to render index template")
		}
	}
}
