package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultTokenHours = 24

// JWTConfig holds the key and lifetime of the bearer tokens that guard write routes.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	hours, err := strconv.Atoi(envOr("JWT_EXPIRATION_HOURS", strconv.Itoa(defaultTokenHours)))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}
	if hours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", hours)
	}

	return &JWTConfig{Secret: secret, TTL: time.Duration(hours) * time.Hour}, nil
}

// OptionalJWTConfig returns nil, nil when JWT_SECRET is unset, which leaves auth off.
func OptionalJWTConfig() (*JWTConfig, error) {
	if os.Getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	return NewJWTConfig()
}
