package config

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/tenant-console/internal/errors"
)

type Config interface {
	EnvConfig
	CorsConfig
	ClientConfig
	CacheConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
	GetAPIBaseURL() string
	GetLogLevel() string
	SecureCookies() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Client
	Cache
}

// New returns the environment backed configuration. A missing backend base URL
// is fatal: nothing in the console works without it.
func New() (Config, error) {
	c := mainConfig{}
	if strings.TrimSpace(c.GetAPIBaseURL()) == "" {
		return nil, fmt.Errorf("[config New] %s is not set: %w", apiBaseURLVar, errors.ErrMissingConfig)
	}
	return c, nil
}
