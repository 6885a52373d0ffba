package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// every returns the refill interval of the endpoint's bucket.
func (e EndpointConfig) every() rate.Limit {
	return rate.Every(e.Window / time.Duration(e.Limit))
}

func (e EndpointConfig) burst() int {
	if e.Burst > 0 {
		return e.Burst
	}
	return e.Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Rate            float64 // Default requests per second per client
	Burst           int     // Default burst per client
	CleanupInterval time.Duration
	IdleTimeout     time.Duration // Buckets unused for this long are dropped
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration with the default endpoint limits. A non-positive
// rps disables limiting.
func NewConfig(rps float64, burst int) *Config {
	if burst <= 0 {
		burst = int(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &Config{
		Enabled:         rps > 0,
		Rate:            rps,
		Burst:           burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Whole-document operations
		{Path: "/companies/import", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "/companies/", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Audio arrives in many small chunks while a capture is open
		{Path: "/recordings/", Method: "POST", Limit: 1200, Window: time.Minute, Burst: 100},

		// Health check is unlimited; handled by special case in matcher
	}
}
