package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the cookie payload of a client-side session: who is
// signed in plus the pending flash messages.
type SessionClaims struct {
	Username string `json:"usr,omitempty"`
	Error    string `json:"err,omitempty"`
	Success  string `json:"ok,omitempty"`
	jwt.RegisteredClaims
}

// SignSession returns an HS256 token carrying c that expires after ttl.
func SignSession(secret []byte, c SessionClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := jt.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return s, nil
}

// ParseSession verifies raw and returns its claims. Only HS256 is accepted.
func ParseSession(secret []byte, raw string) (*SessionClaims, error) {
	var c SessionClaims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &c, nil
}
