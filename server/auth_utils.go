package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"

	connectionErrorMessage = "Unable to connect to the server. Please check your connection."
)

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the caller posted or asked for JSON
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeJSON) ||
		strings.Contains(r.Header.Get("Accept"), contentTypeJSON)
}

// safeRedirect returns target when it is a local absolute path and "/"
// otherwise, so the login redirect parameter cannot send users off site.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return RouteIndex
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return RouteIndex
	}
	if u.Path == RouteLogin || u.Path == RouteLogout {
		return RouteIndex
	}
	return target
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, errorName, message string) {
	writeJSON(w, status, map[string]string{"error": errorName, "message": message})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSONError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
}

// writeConnectionError is the answer when the backend cannot be reached
func writeConnectionError(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadGateway, map[string]any{
		"error":        true,
		"errorType":    "connection",
		"errorMessage": connectionErrorMessage,
	})
}
