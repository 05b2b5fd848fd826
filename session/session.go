// Package session reads the user greeted by the dashboard from the stored session token.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/navdash"
	"github.com/etnz/navdash/date"
	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned for tokens that carry no readable claims.
var ErrOpaqueToken = errors.New("session token carries no user claims")

// UserFromToken decodes the user record from the claims of a JWT session token.
//
// The signature is not verified: the service that issued the token owns its
// verification, and the record is only used for display.
func UserFromToken(token string) (navdash.User, error) {
	if token == "" {
		return navdash.User{}, ErrOpaqueToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return navdash.User{}, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	var u navdash.User
	u.Username = stringClaim(claims, "username")
	if u.Username == "" {
		// some issuers only set the subject
		u.Username = stringClaim(claims, "sub")
	}
	if u.Username == "" {
		return navdash.User{}, ErrOpaqueToken
	}
	u.Role = stringClaim(claims, "role")

	switch id := claims["id"].(type) {
	case float64:
		u.ID = int64(id)
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return navdash.User{}, fmt.Errorf("invalid id claim %q: %w", id, err)
		}
		u.ID = n
	}

	switch v := claims["created_at"].(type) {
	case string:
		d, err := date.Parse(v)
		if err != nil {
			return navdash.User{}, fmt.Errorf("invalid created_at claim: %w", err)
		}
		u.CreatedAt = d
	case float64:
		u.CreatedAt = date.Of(time.Unix(int64(v), 0))
	default:
		if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
			u.CreatedAt = date.Of(iat.Time)
		}
	}
	return u, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
