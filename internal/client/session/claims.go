package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the part of an access token the client shows to the user.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carried an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Describe decodes token claims WITHOUT verifying the signature. The result
// is for display only and must never drive an authorization decision.
func Describe(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.New("empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}

	var c Claims
	// the users API issues numeric subjects, which GetSubject rejects
	if sub, ok := claims["sub"]; ok && sub != nil {
		switch v := sub.(type) {
		case float64:
			c.Subject = fmt.Sprintf("%.0f", v)
		default:
			c.Subject = fmt.Sprint(v)
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
