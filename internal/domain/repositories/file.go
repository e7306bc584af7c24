package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// ListScope describes which files a listing query may return. It is produced
// by the access policy from the actor's role and consumed by the repository,
// so the visibility rules live in one place and the SQL merely applies them.
type ListScope struct {
	// All disables visibility filtering entirely (ADMIN).
	All bool

	// ViewerID is the actor whose PRIVATE files are included.
	ViewerID int64

	// AllDepartments includes every DEPARTMENT file regardless of the
	// owner's department (MANAGER).
	AllDepartments bool

	// DepartmentID, when set, includes DEPARTMENT files whose owner belongs
	// to this department (USER with a department).
	DepartmentID *int64

	// FilterDepartmentID, when set, additionally restricts results to files
	// owned by members of this department. Only MANAGER and ADMIN scopes
	// carry it.
	FilterDepartmentID *int64
}

// FileRepository defines data access operations for file records. Reads that
// return a record always populate Owner so visibility checks can run without
// a second query.
type FileRepository interface {
	// Create inserts a new file record.
	Create(ctx context.Context, rec *models.FileRecord) error

	// GetByID retrieves a file record with its owner.
	GetByID(ctx context.Context, id int64) (*models.FileRecord, error)

	// List returns the records visible under the given scope.
	List(ctx context.Context, scope ListScope) ([]models.FileRecord, error)

	// ListAll returns every record without owner hydration. Used by the
	// reconciliation sweep.
	ListAll(ctx context.Context) ([]models.FileRecord, error)

	// Delete removes a record. Returns false if no row matched, so two
	// concurrent deletes observe at most one successful deletion.
	Delete(ctx context.Context, id int64) (bool, error)

	// IncrementDownloads atomically adds one to the record's download
	// counter. Concurrent increments must not lose updates.
	IncrementDownloads(ctx context.Context, id int64) error

	// SetMetadata merges extracted metadata onto the record matched by
	// object key. Returns false if no record matched (deleted before the
	// extraction completed). The merge is idempotent.
	SetMetadata(ctx context.Context, objectKey string, metadata map[string]any) (bool, error)
}
