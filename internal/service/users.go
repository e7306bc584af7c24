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

// UserService manages accounts. Creation and role changes are restricted to
// ADMIN and MANAGER; a MANAGER operates only inside its own department and
// can never mint an ADMIN.
type UserService struct {
	users     repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateUserRequest carries a new account's attributes. Role defaults to
// USER and DepartmentID to the creator's department when omitted.
type CreateUserRequest struct {
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
	DepartmentID *int64      `json:"department_id"`
	Active       bool        `json:"active"`
}

func (r *CreateUserRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			validation.Length(3, models.MaxEmailLength),
			is.EmailFormat,
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128),
		),
	)
}

// CreateUser creates an account on behalf of the actor.
func (s *UserService) CreateUser(ctx context.Context, actor *models.User, req *CreateUserRequest) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
		return nil, fmt.Errorf("create user: %w", domain.ErrForbidden)
	}

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	departmentID := req.DepartmentID
	if departmentID == nil {
		departmentID = actor.DepartmentID
	}

	if actor.Role == models.RoleManager {
		if role == models.RoleAdmin {
			return nil, fmt.Errorf("manager cannot create admin: %w", domain.ErrForbidden)
		}
		// Managers only staff their own department.
		departmentID = actor.DepartmentID
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		DepartmentID: departmentID,
		Active:       req.Active,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"role", user.Role,
		"created_by", actor.ID,
	)

	return user, nil
}

// GetUser retrieves an account. A MANAGER may only see users in its own
// department.
func (s *UserService) GetUser(ctx context.Context, actor *models.User, id int64) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
		return nil, fmt.Errorf("get user: %w", domain.ErrForbidden)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleManager && !actor.SameDepartment(user) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrForbidden)
	}

	return user, nil
}

// UpdateRole changes a user's role. The read and the write run in one
// transaction so the department check applies to the row being updated.
func (s *UserService) UpdateRole(ctx context.Context, actor *models.User, id int64, role models.Role) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
		return nil, fmt.Errorf("update role: %w", domain.ErrForbidden)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	var user *models.User
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.users.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if actor.Role == models.RoleManager {
			if !actor.SameDepartment(user) {
				return fmt.Errorf("user %d: %w", id, domain.ErrForbidden)
			}
			if role == models.RoleAdmin {
				return fmt.Errorf("manager cannot grant admin: %w", domain.ErrForbidden)
			}
		}

		if err := s.users.UpdateRole(txCtx, id, role); err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role updated",
		"id", id,
		"role", role,
		"updated_by", actor.ID,
	)

	return user, nil
}

// ListUsers returns all users for ADMIN and the actor's department for
// MANAGER.
func (s *UserService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return s.users.List(ctx)
	case models.RoleManager:
		if actor.DepartmentID == nil {
			return nil, nil
		}
		return s.users.ListByDepartment(ctx, *actor.DepartmentID)
	default:
		return nil, fmt.Errorf("list users: %w", domain.ErrForbidden)
	}
}
