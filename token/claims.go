package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims is the subset of access token claims the client cares about.
type Claims struct {
	ID        string    // jti
	Subject   string    // member ID
	Role      string    // dashboard role
	IssuedAt  time.Time // zero when absent
	ExpiresAt time.Time // zero when absent
}

// Expired reports whether the token's exp is before now. A token without exp
// never expires.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect decodes an access token WITHOUT verifying its signature. It is for
// display only; the server remains the authority on validity.
func Inspect(raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrap(err, "token.Inspect")
	}
	return fromMapClaims(claims), nil
}

func fromMapClaims(claims jwt.MapClaims) *Claims {
	c := &Claims{}
	c.Subject, _ = claims.GetSubject()
	if jti, ok := claims["jti"].(string); ok {
		c.ID = jti
	}
	if role, ok := claims["role"].(string); ok {
		c.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}
