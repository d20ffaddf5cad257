// internal/api/session.go
// Credential passed explicitly to every API call

package api

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session is the bearer credential of one signed-in user. The signature is
// not checked here; the API does that. Claims are only read to know who is
// signed in and when the token stops being useful.
type Session struct {
	Token string

	username  string
	expiresAt time.Time
}

// NewSession decodes the token claims once. Tokens that are not JWTs are
// still accepted as opaque credentials.
func NewSession(token string) Session {
	s := Session{Token: token}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s
	}

	s.username = getStringClaim(claims, "sub")
	if s.username == "" {
		s.username = getStringClaim(claims, "username")
	}
	if exp := getInt64Claim(claims, "exp"); exp > 0 {
		s.expiresAt = time.Unix(exp, 0)
	}
	return s
}

// Valid reports whether there is a token at all.
func (s Session) Valid() bool { return s.Token != "" }

// Username of the signed-in user, empty if the token carries none.
func (s Session) Username() string { return s.username }

// ExpiresAt is zero when the token has no exp claim.
func (s Session) ExpiresAt() time.Time { return s.expiresAt }

func (s Session) Expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

func getStringClaim(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64Claim(claims jwt.MapClaims, key string) int64 {
	if val, ok := claims[key].(float64); ok {
		return int64(val)
	}
	return 0
}
