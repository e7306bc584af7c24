package service

import (
	"context"
	"errors"
	"log/slog"

	"docvault/internal/blob"
	"docvault/internal/domain"
	"docvault/internal/domain/repositories"
)

// Reconciler sweeps the file table for records whose blob no longer exists.
// Deletes remove the blob before the record, so a crash in the gap leaves a
// dangling record; the sweep is what closes that window. It never touches
// blobs, only records, so a transient storage outage cannot make it destroy
// data it merely failed to see.
type Reconciler struct {
	files  repositories.FileRepository
	blobs  blob.Store
	logger *slog.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(files repositories.FileRepository, blobs blob.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		files:  files,
		blobs:  blobs,
		logger: logger,
	}
}

// Result summarizes one sweep.
type Result struct {
	Checked int `json:"checked"`
	Removed int `json:"removed"`
}

// Run checks every record's blob and removes records whose blob is gone.
// Records whose blob cannot be checked (storage error other than not-found)
// are skipped.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	records, err := r.files.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Checked: len(records)}
	for _, rec := range records {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		err := r.blobs.Stat(ctx, rec.ObjectKey)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("skipping record, blob check failed",
				"id", rec.ID,
				"object_key", rec.ObjectKey,
				"error", err,
			)
			continue
		}

		removed, err := r.files.Delete(ctx, rec.ID)
		if err != nil {
			r.logger.Warn("failed to remove dangling record",
				"id", rec.ID,
				"error", err,
			)
			continue
		}
		if removed {
			result.Removed++
			r.logger.Info("removed dangling record",
				"id", rec.ID,
				"object_key", rec.ObjectKey,
			)
		}
	}

	return result, nil
}
