package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements the UserRepository interface.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new user.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, password_hash, role, department_id, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.DepartmentID,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("user %q: %w", user.Email, domain.ErrEmailExists)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, role, department_id, active, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	return r.scanOne(ctx, query, id)
}

// GetByEmail retrieves a user by its unique email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, role, department_id, active, created_at
		FROM %s
		WHERE email = $1
	`, r.tables.Users)

	return r.scanOne(ctx, query, email)
}

func (r *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.DepartmentID,
		&user.Active,
		&user.CreatedAt,
	)

	if err != nil {
		if isNoRowsError(err) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// UpdateRole changes a user's role.
func (r *PostgresUserRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	query := fmt.Sprintf(`UPDATE %s SET role = $2 WHERE id = $1`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns all users.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, role, department_id, active, created_at
		FROM %s
		ORDER BY id
	`, r.tables.Users)

	return r.scanMany(ctx, query)
}

// ListByDepartment returns users in the given department.
func (r *PostgresUserRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, role, department_id, active, created_at
		FROM %s
		WHERE department_id = $1
		ORDER BY id
	`, r.tables.Users)

	return r.scanMany(ctx, query, departmentID)
}

func (r *PostgresUserRepository) scanMany(ctx context.Context, query string, args ...any) ([]models.User, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.DepartmentID,
			&user.Active,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
