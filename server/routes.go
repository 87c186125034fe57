package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, s.LoginPageUIHandler())
	s.RegisterRouteFunc("POST "+RouteLogin, s.LoginSubmissionHandler())
	s.RegisterRouteFunc("GET "+RouteLogout, s.LogoutHandler())
	s.RegisterRouteFunc("POST "+RouteLogout, s.LogoutHandler())

	// API routes
	s.RegisterRouteFunc("GET "+RouteAPISession, s.SessionHandler())
	s.RegisterRouteHandler("GET "+RouteAPIResourceList, ChainMiddleware(s.ResourceListHandler(), s.RequireIndexPermission("resource")))
	s.RegisterRouteHandler("GET "+RouteAPIResource, ChainMiddleware(s.ResourceHandler(), s.RequireIndexPermission("resource")))
	s.RegisterRouteHandler("GET "+RouteAPIChatTemplate, ChainMiddleware(s.DefaultChatTemplateHandler(), s.RequirePermission(chatTemplateIndex)))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteFunc("GET "+RouteMetrics, s.MetricsHandler())

	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteFavicon, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.PathValue("file"), "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Str("path", filePath).Msg("Static file not found")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
