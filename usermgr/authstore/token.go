package authstore

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the CLI can tell about a session without asking the server.
type TokenInfo struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	Expired   bool
}

// Inspect decodes the claims of a JWT without verifying its signature. Only
// the server can verify it; this is for display.
func Inspect(token string, now time.Time) (TokenInfo, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return TokenInfo{}, fmt.Errorf("failed to parse token: %w", err)
	}

	var info TokenInfo
	if info.Subject, err = parsed.Claims.GetSubject(); err != nil {
		return TokenInfo{}, err
	}
	if info.Issuer, err = parsed.Claims.GetIssuer(); err != nil {
		return TokenInfo{}, err
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return TokenInfo{}, err
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = !now.Before(exp.Time)
	}
	return info, nil
}
