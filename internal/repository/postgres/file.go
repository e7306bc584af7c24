package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFileRepository implements the FileRepository interface.
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFileRepository creates a new file repository.
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new file record.
func (r *PostgresFileRepository) Create(ctx context.Context, rec *models.FileRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (filename, object_key, owner_id, visibility, metadata, downloads_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Files)

	metadata, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		rec.Filename,
		rec.ObjectKey,
		rec.OwnerID,
		rec.Visibility,
		metadata,
		rec.DownloadsCount,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("create file record: %w", err)
	}

	return nil
}

const fileWithOwnerColumns = `
	f.id, f.filename, f.object_key, f.owner_id, f.visibility, f.metadata,
	f.downloads_count, f.created_at,
	u.id, u.email, u.password_hash, u.role, u.department_id, u.active, u.created_at
`

// GetByID retrieves a file record with its owner.
func (r *PostgresFileRepository) GetByID(ctx context.Context, id int64) (*models.FileRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		JOIN %s u ON u.id = f.owner_id
		WHERE f.id = $1
	`, fileWithOwnerColumns, r.tables.Files, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	rec, err := scanFileWithOwner(executor.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRowsError(err) {
			return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return rec, nil
}

// List returns the records visible under the given scope, newest first.
func (r *PostgresFileRepository) List(ctx context.Context, scope repositories.ListScope) ([]models.FileRecord, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !scope.All {
		visible := []string{"f.visibility = 'PUBLIC'"}
		if scope.AllDepartments {
			visible = append(visible, "f.visibility = 'DEPARTMENT'")
		} else if scope.DepartmentID != nil {
			visible = append(visible, fmt.Sprintf(
				"(f.visibility = 'DEPARTMENT' AND u.department_id = %s)", arg(*scope.DepartmentID)))
		}
		visible = append(visible, fmt.Sprintf(
			"(f.visibility = 'PRIVATE' AND f.owner_id = %s)", arg(scope.ViewerID)))
		conds = append(conds, "("+strings.Join(visible, " OR ")+")")
	}

	if scope.FilterDepartmentID != nil {
		conds = append(conds, fmt.Sprintf("u.department_id = %s", arg(*scope.FilterDepartmentID)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		JOIN %s u ON u.id = f.owner_id
	`, fileWithOwnerColumns, r.tables.Files, r.tables.Users)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY f.id DESC"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		rec, err := scanFileWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return records, nil
}

// ListAll returns every record without owner hydration.
func (r *PostgresFileRepository) ListAll(ctx context.Context) ([]models.FileRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, filename, object_key, owner_id, visibility, metadata, downloads_count, created_at
		FROM %s
		ORDER BY id
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all files: %w", err)
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		var rec models.FileRecord
		var metadata []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.Filename,
			&rec.ObjectKey,
			&rec.OwnerID,
			&rec.Visibility,
			&metadata,
			&rec.DownloadsCount,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		if err := decodeMetadata(metadata, &rec.Metadata); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list all files: %w", err)
	}

	return records, nil
}

// Delete removes a record, reporting whether a row matched.
func (r *PostgresFileRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete file record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// IncrementDownloads atomically adds one to the download counter. The
// increment happens inside the database, so concurrent opens never lose
// updates.
func (r *PostgresFileRepository) IncrementDownloads(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET downloads_count = downloads_count + 1 WHERE id = $1
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetMetadata merges extracted metadata onto the record matched by object key.
func (r *PostgresFileRepository) SetMetadata(ctx context.Context, objectKey string, metadata map[string]any) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET metadata = $2 WHERE object_key = $1`, r.tables.Files)

	encoded, err := encodeMetadata(metadata)
	if err != nil {
		return false, err
	}

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, objectKey, encoded)
	if err != nil {
		return false, fmt.Errorf("set file metadata: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFileWithOwner(row rowScanner) (*models.FileRecord, error) {
	var rec models.FileRecord
	var owner models.User
	var metadata []byte

	err := row.Scan(
		&rec.ID,
		&rec.Filename,
		&rec.ObjectKey,
		&rec.OwnerID,
		&rec.Visibility,
		&metadata,
		&rec.DownloadsCount,
		&rec.CreatedAt,
		&owner.ID,
		&owner.Email,
		&owner.PasswordHash,
		&owner.Role,
		&owner.DepartmentID,
		&owner.Active,
		&owner.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeMetadata(metadata, &rec.Metadata); err != nil {
		return nil, err
	}
	rec.Owner = &owner

	return &rec, nil
}

// encodeMetadata renders the metadata map as JSONB, keeping NULL for absent
// metadata so "never extracted" stays distinguishable from "empty".
func encodeMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return encoded, nil
}

func decodeMetadata(raw []byte, dest *map[string]any) error {
	if raw == nil {
		*dest = nil
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	return nil
}
