package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims decodes a JWT payload locally. The signature is not checked: the
// backend does that. Opaque tokens report ok=false.
func Claims(token string) (claims jwt.MapClaims, ok bool) {
	claims = jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Expiry returns the exp claim of a JWT, or nil.
func Expiry(token string) *time.Time {
	claims, ok := Claims(token)
	if !ok {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
