package auth

import (
	"fmt"
	"strconv"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies HS256 access tokens signed with a local
// secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// IssueToken creates a signed access token for the user.
func (s *TokenService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates a token and extracts its claims. Expired, malformed
// and wrongly signed tokens all come back as invalid credentials.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return claims, nil
}
