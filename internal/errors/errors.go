package errors

import (
	"errors"
	"fmt"
)

// Common error types for the admin console
var (
	// Tenant errors
	ErrInvalidTenant = errors.New("invalid tenant")

	// Authentication errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrTokenExpired    = errors.New("token expired")
	ErrRefreshFailed   = errors.New("token refresh failed")

	// Backend errors
	ErrTransport         = errors.New("backend unreachable")
	ErrMalformedEnvelope = errors.New("malformed backend envelope")

	// Configuration errors
	ErrMissingConfig = errors.New("missing configuration")

	// General errors
	ErrNotFound = errors.New("not found")
)

// TransportError is returned when the backend could not be reached at all:
// connection failures, timeouts, cancelled contexts.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTransport) match any TransportError
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
