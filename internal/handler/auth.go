package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/httputil"
	"docvault/internal/service"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// tokenResponse is the body of a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates by email and password.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Token authenticates via the OAuth2 password form, for CLI tooling and
// API explorers that speak that shape.
// POST /auth/token
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	req := service.LoginRequest{
		Email:    r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated actor.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)
	if actor == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, actor)
}
