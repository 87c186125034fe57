package tenants

import (
	"net"
	"regexp"
	"strings"

	"github.com/jrsteele09/tenant-console/internal/errors"
)

// Main is the sentinel tenant used when the host carries no tenant subdomain.
// Backend calls for it are routed under /api instead of a tenant prefix.
const Main = "main"

const maxLabelLength = 63

var labelPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// loopbackAliases are hosts that never carry a tenant in development
var loopbackAliases = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// Resolve derives the tenant ID from a Host header value.
//
// "acme.example.com" resolves to "acme". A bare registrable domain
// ("example.com"), a single label, a "www" first label, or (when dev is set) a
// loopback alias resolve to Main. In dev "acme.localhost" resolves to "acme".
// A first label that is not a valid DNS label returns ErrInvalidTenant.
func Resolve(host string, dev bool) (string, error) {
	host = stripPort(strings.TrimSpace(host))
	if host == "" {
		return "", errors.Wrapf(errors.ErrInvalidTenant, "empty host")
	}

	if dev {
		if _, ok := loopbackAliases[strings.ToLower(host)]; ok {
			return Main, nil
		}
	}

	// IP literals have no subdomain
	if net.ParseIP(host) != nil {
		return Main, nil
	}

	labels := strings.Split(host, ".")
	minLabels := 3
	if dev && strings.EqualFold(labels[len(labels)-1], "localhost") {
		minLabels = 2
	}
	if len(labels) < minLabels || strings.EqualFold(labels[0], "www") {
		return Main, nil
	}

	if !ValidID(labels[0]) {
		return "", errors.Wrapf(errors.ErrInvalidTenant, "subdomain %q", labels[0])
	}
	return labels[0], nil
}

// ValidID reports whether id is usable as a tenant path segment
func ValidID(id string) bool {
	return len(id) <= maxLabelLength && labelPattern.MatchString(id)
}

// IsMain reports whether tenantID routes to the shared /api prefix
func IsMain(tenantID string) bool {
	return tenantID == "" || tenantID == Main
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.Trim(h, "[]")
	}
	return strings.Trim(host, "[]")
}
