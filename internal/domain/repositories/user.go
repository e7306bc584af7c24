package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// UserRepository defines data access operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailExists if the email
	// is already taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by its unique email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, id int64, role models.Role) error

	// List returns all users.
	List(ctx context.Context) ([]models.User, error)

	// ListByDepartment returns users in the given department.
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.User, error)
}
