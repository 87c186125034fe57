package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/tenant-console/api"
	"github.com/jrsteele09/tenant-console/cache"
	"github.com/jrsteele09/tenant-console/internal/config"
	"github.com/jrsteele09/tenant-console/resources"
	"github.com/jrsteele09/tenant-console/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.HandlerFunc
	routes  []string
	config  config.Config

	client    *api.Client
	profiles  *users.ProfileLoader
	resources *resources.Service
	registry  *prometheus.Registry

	// now is the clock used for the advisory token expiry check
	now func() time.Time
}

// New builds the console HTTP handler. Every request passes the standard
// middleware chain, which resolves the tenant and session before routing.
func New(config config.Config, client *api.Client, store cache.Store) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("[Server New] backend client is required")
	}
	if store == nil {
		store = cache.NewMemory(config.GetProfileCacheTTL())
	}

	s := &Server{
		env:       config.GetEnv(),
		mux:       http.NewServeMux(),
		config:    config,
		client:    client,
		profiles:  users.NewProfileLoader(client, store, config.GetProfileCacheTTL()),
		resources: resources.NewService(client),
		registry:  prometheus.NewRegistry(),
		now:       time.Now,
	}

	if err := s.registerMetrics(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to register metrics: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.StdMiddleware()...)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) registerMetrics() error {
	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
	}
	cs = append(cs, api.Collectors()...)
	for _, c := range cs {
		if err := s.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
