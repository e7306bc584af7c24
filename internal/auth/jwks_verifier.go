package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docvault/internal/domain"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier implements TokenVerifier against the JWKS endpoint of an
// external identity provider. Wired instead of the local TokenService when
// AUTH_JWKS_URL is configured; token issuance then happens at the provider.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the JWKS
// endpoint. Keys are cached and refreshed by keyfunc based on HTTP cache
// headers.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates an externally issued token.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.jwks.Keyfunc)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	// Asymmetric algorithms only; an HS256 token signed with a published
	// key would be an algorithm confusion attack.
	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return claims, nil
}
