package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Login & Logout
	RouteLogin          = "/login"
	RouteLogout         = "/logout"
	RouteSignup         = "/signup"
	RouteForgotPassword = "/forgot-password"
	RouteResetPassword  = "/reset-password"

	// API Routes
	RouteAPIPrefix       = "/api/"
	RouteAPISession      = "/api/session"
	RouteAPIResourceList = "/api/{resource}"
	RouteAPIResource     = "/api/{resource}/{id}"
	RouteAPIChatTemplate = "/api/chat-template/domain/{domainId}/default"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"

	// Static Asset Routes
	RouteStaticPrefix = "/_app/"
	RouteStatic       = "/_app/{file...}"
	RouteFavicon      = "/favicon.ico"
)

// publicRoutes are served without a session
var publicRoutes = []string{
	RouteLogin,
	RouteLogout,
	RouteSignup,
	RouteForgotPassword,
	RouteResetPassword,
	RouteAPISession,
	RouteHealth,
	RouteMetrics,
}

// staticPrefixes bypass tenant and session resolution entirely
var staticPrefixes = []string{RouteStaticPrefix, RouteFavicon, "/static/"}
