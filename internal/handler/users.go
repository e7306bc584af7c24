package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"docvault/internal/domain/models"
	"docvault/internal/httputil"
	"docvault/internal/service"
)

// UserHandler handles user management HTTP requests.
type UserHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Create creates a user account.
// POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	var req service.CreateUserRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), actor, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

// Get retrieves a user by id.
// GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetUser(r.Context(), actor, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// updateRoleRequest is the body of a role change.
type updateRoleRequest struct {
	Role models.Role `json:"role"`
}

// UpdateRole changes a user's role.
// PUT /api/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateRoleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateRole(r.Context(), actor, id, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

// List returns the users visible to the actor.
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := httputil.ActorFrom(r)

	users, err := h.userService.ListUsers(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
