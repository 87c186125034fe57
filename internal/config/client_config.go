package config

import "time"

// ClientConfig tunes the outbound backend client
type ClientConfig interface {
	GetAPITimeout() time.Duration
	GetRefreshTimeout() time.Duration
	GetRefreshGrace() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPITimeout() time.Duration {
	return GetDuration("API_TIMEOUT", 15*time.Second)
}

func (Client) GetRefreshTimeout() time.Duration {
	return GetDuration("REFRESH_TIMEOUT", 10*time.Second)
}

// GetRefreshGrace is how long a rotated refresh token keeps resolving to the pair it was exchanged for
func (Client) GetRefreshGrace() time.Duration {
	return GetDuration("REFRESH_GRACE", 30*time.Second)
}
