package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"docvault/internal/blob"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/queue"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// objectKeyRandomBytes is the entropy in each generated object key.
const objectKeyRandomBytes = 8

// FileService orchestrates the file lifecycle: upload validation, blob and
// record persistence, authorized reads and listings, download streaming and
// the extraction handoff.
type FileService struct {
	files     repositories.FileRepository
	blobs     blob.Store
	jobs      queue.Queue
	policy    *AccessPolicy
	validator *UploadValidator
	logger    *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(
	files repositories.FileRepository,
	blobs blob.Store,
	jobs queue.Queue,
	policy *AccessPolicy,
	validator *UploadValidator,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:     files,
		blobs:     blobs,
		jobs:      jobs,
		policy:    policy,
		validator: validator,
		logger:    logger,
	}
}

// UploadRequest carries one upload's declared attributes and content.
type UploadRequest struct {
	Filename    string
	ContentType string
	Visibility  models.Visibility
	Data        []byte
}

func (r *UploadRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Filename,
			validation.Required,
			validation.Length(1, models.MaxFilenameLength),
		),
		validation.Field(&r.ContentType, validation.Required),
		validation.Field(&r.Visibility,
			validation.Required,
			validation.By(func(any) error {
				if !r.Visibility.Valid() {
					return fmt.Errorf("unknown visibility %q", r.Visibility)
				}
				return nil
			}),
		),
	)
}

// Upload validates the request against the actor's role, stores the blob,
// persists the record and schedules metadata extraction. All checks happen
// before any mutating side effect; a rejected upload writes nothing.
//
// The blob write and the record insert span two stores and are not atomic.
// A crash between them leaves a blob no record points at; the reconciliation
// sweep recovers the inverse case (see Reconciler).
func (s *FileService) Upload(ctx context.Context, actor *models.User, req *UploadRequest) (*models.FileRecord, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.validator.Validate(actor, req.Visibility, req.ContentType, int64(len(req.Data))); err != nil {
		return nil, err
	}

	objectKey, err := s.newObjectKey(actor.ID, req.Filename)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Put(ctx, objectKey, bytes.NewReader(req.Data), int64(len(req.Data)), req.ContentType); err != nil {
		return nil, &domain.TransientStorageError{Op: "put", Err: err}
	}

	rec := &models.FileRecord{
		Filename:       req.Filename,
		ObjectKey:      objectKey,
		OwnerID:        actor.ID,
		Visibility:     req.Visibility,
		Metadata:       nil,
		DownloadsCount: 0,
	}
	if err := s.files.Create(ctx, rec); err != nil {
		// The blob is already written; the record insert failed. Leave the
		// orphaned blob for operators rather than risk a second failure
		// masking the first.
		s.logger.Error("record insert failed after blob write",
			"object_key", objectKey,
			"error", err,
		)
		return nil, err
	}

	// Extraction is best-effort enrichment; a full queue must not fail the
	// upload that already committed.
	if err := s.jobs.Enqueue(ctx, queue.NewJob(objectKey, req.ContentType)); err != nil {
		s.logger.Warn("failed to enqueue extraction job",
			"object_key", objectKey,
			"error", err,
		)
	}

	s.logger.Info("file uploaded",
		"id", rec.ID,
		"owner_id", actor.ID,
		"visibility", rec.Visibility,
		"size", len(req.Data),
	)

	return rec, nil
}

// newObjectKey builds "{ownerID}/{random}_{filename}". Eight random bytes,
// URL-safe encoded, make collisions negligible while keeping keys readable.
func (s *FileService) newObjectKey(ownerID int64, filename string) (string, error) {
	buf := make([]byte, objectKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate object key: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	key := fmt.Sprintf("%d/%s_%s", ownerID, token, filename)
	if len(key) > models.MaxObjectKeyLength {
		return "", fmt.Errorf("%w: object key too long", domain.ErrValidation)
	}
	return key, nil
}

// Get fetches a record and authorizes the read. A nonexistent file always
// yields NotFound, never Forbidden: the record is fetched with its owner
// first and the policy runs only on files that exist.
func (s *FileService) Get(ctx context.Context, actor *models.User, id int64) (*models.FileRecord, error) {
	rec, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanRead(actor, rec) {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrForbidden)
	}

	return rec, nil
}

// List returns the records visible to the actor. The department filter is
// honored for MANAGER and ADMIN and ignored for USER.
func (s *FileService) List(ctx context.Context, actor *models.User, departmentFilter *int64) ([]models.FileRecord, error) {
	scope := s.policy.ListScope(actor, departmentFilter)
	return s.files.List(ctx, scope)
}

// Delete removes a file's blob and record. A missing id is a silent no-op,
// so concurrent deletes of the same file both succeed with at most one of
// them doing the work.
//
// The blob goes first: a crash in between leaves a dangling record, which
// the reconciliation sweep can find by its object key. The inverse order
// would leave an unreferenced blob with nothing pointing at it.
func (s *FileService) Delete(ctx context.Context, actor *models.User, id int64) error {
	rec, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !s.policy.CanDelete(actor, rec) {
		return fmt.Errorf("file %d: %w", id, domain.ErrForbidden)
	}

	if err := s.blobs.Delete(ctx, rec.ObjectKey); err != nil {
		return &domain.TransientStorageError{Op: "delete", Err: err}
	}

	removed, err := s.files.Delete(ctx, id)
	if err != nil {
		return err
	}

	if removed {
		s.logger.Info("file deleted",
			"id", id,
			"object_key", rec.ObjectKey,
			"actor_id", actor.ID,
		)
	}

	return nil
}

// Download pairs the byte stream with the record it belongs to.
type Download struct {
	Record *models.FileRecord
	Body   io.ReadCloser
}

// OpenDownload authorizes the read, opens the blob stream and counts the
// download. The counter moves exactly once per successful open, no matter
// how much of the stream the caller consumes; the returned Body must be
// closed on every exit path to release the storage handle.
func (s *FileService) OpenDownload(ctx context.Context, actor *models.User, id int64) (*Download, error) {
	rec, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanRead(actor, rec) {
		return nil, fmt.Errorf("file %d: %w", id, domain.ErrForbidden)
	}

	body, err := s.blobs.Get(ctx, rec.ObjectKey)
	if err != nil {
		return nil, &domain.TransientStorageError{Op: "get", Err: err}
	}

	if err := s.files.IncrementDownloads(ctx, id); err != nil {
		body.Close()
		return nil, err
	}

	return &Download{Record: rec, Body: body}, nil
}
