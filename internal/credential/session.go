package credential

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the payload the backend puts in its access tokens.
type Claims struct {
	TokenType string      `json:"token_type,omitempty"`
	UserID    interface{} `json:"user_id,omitempty"`
	jwtlib.RegisteredClaims
}

// ParseClaims decodes the token payload without verifying its signature.
// The signing key lives on the backend; locally the claims are only used
// for display and expiry checks.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return claims, nil
}

// TokenExpiry returns the token's exp claim. ok is false when the token has
// no expiry or cannot be decoded.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// LoggedIn reports whether token is present and not past its expiry at now.
// Tokens without a readable expiry count as valid.
func LoggedIn(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, ok := TokenExpiry(token)
	if !ok {
		return true
	}
	return now.Before(exp)
}
