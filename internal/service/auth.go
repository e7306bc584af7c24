package service

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/auth"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// AuthService is the Authenticator capability: credentials in, actor out.
// Unknown email, wrong password and deactivated account all answer with the
// same InvalidCredentials so callers cannot probe for accounts.
type AuthService struct {
	users    repositories.UserRepository
	tokens   *auth.TokenService
	verifier auth.TokenVerifier
	logger   *slog.Logger
}

// NewAuthService creates an auth service. verifier resolves bearer tokens;
// normally the token service itself, or a JWKS verifier when tokens come
// from an external identity provider.
func NewAuthService(
	users repositories.UserRepository,
	tokens *auth.TokenService,
	verifier auth.TokenVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger,
	}
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login authenticates by email and password and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	if !user.Active {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", "id", user.ID)

	return token, nil
}

// ResolveToken resolves a bearer token to its actor. Expired, malformed and
// unknown-subject tokens all come back as invalid credentials.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.verifier.VerifyToken(tokenString)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
