package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	envVar            = "ENV"
	apiBaseURLVar     = "API_BASE_URL"
	viteAPIBaseURLVar = "VITE_API_BASE_URL"
	logLevelVar       = "LOG_LEVEL"

	// EnvDev is the default environment
	EnvDev = "DEV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Tenant Console")
}

func (EnvVars) GetEnv() string {
	return strings.ToUpper(GetEnv(envVar, EnvDev))
}

func (e EnvVars) IsDev() bool {
	return e.GetEnv() == EnvDev
}

// GetAPIBaseURL returns the backend REST API base URL (e.g. "https://api.example.com").
// VITE_API_BASE_URL is honoured so existing deployments keep their env files.
func (EnvVars) GetAPIBaseURL() string {
	if v := GetEnv(apiBaseURLVar, ""); v != "" {
		return strings.TrimRight(v, "/")
	}
	return strings.TrimRight(GetEnv(viteAPIBaseURLVar, ""), "/")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// SecureCookies reports whether session cookies carry the Secure flag (everywhere but DEV)
func (e EnvVars) SecureCookies() bool {
	return !e.IsDev()
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses a Go duration ("15s", "1m") and falls back to defaultValue when unset or invalid
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(envVar, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetInt(envVar string, defaultValue int) int {
	i, err := strconv.Atoi(GetEnv(envVar, ""))
	if err != nil {
		return defaultValue
	}
	return i
}
