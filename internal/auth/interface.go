package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token claim set docvault works with. The subject carries the
// user id.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the numeric user id from the subject claim.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenVerifier validates a bearer token and returns its claims. The two
// implementations are the local HS256 TokenService and the JWKS-backed
// verifier for an external identity provider; the middleware is agnostic to
// which one is wired.
type TokenVerifier interface {
	// VerifyToken validates the token string. Returns
	// domain.ErrInvalidCredentials for expired, malformed or otherwise
	// unverifiable tokens.
	VerifyToken(tokenString string) (*Claims, error)
}
