package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server/middleware"
)

// JWTService issues and verifies HS256 bearer tokens. The token subject names the caller;
// there are no other claims.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a JWTService from cfg.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret), ttl: cfg.TTL, now: time.Now}
}

// GenerateToken signs a token for subject that expires after the configured TTL.
func (s *JWTService) GenerateToken(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is empty")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of tokenString and returns its claims.
func (s *JWTService) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("malformed token: %w", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("invalid token signature: %w", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("token expired: %w", err)
	case err != nil:
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// ValidateToken implements middleware.TokenValidator.
func (s *JWTService) ValidateToken(tokenString string) (middleware.SubjectGetter, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
