// Package extract is the asynchronous metadata-extraction pipeline. It runs
// out of the request path, once per successful upload, and reconciles what
// it derives back onto the matching file record. Everything here is
// best-effort: a failure is logged, the record's metadata stays absent, and
// nothing ever propagates to the uploader.
package extract

import (
	"context"
	"io"
	"log/slog"

	"docvault/internal/blob"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/queue"
)

// Pipeline fetches a stored blob back, derives document metadata and merges
// it onto the file record matched by object key.
type Pipeline struct {
	files  repositories.FileRepository
	blobs  blob.Store
	logger *slog.Logger
}

// NewPipeline creates an extraction pipeline.
func NewPipeline(files repositories.FileRepository, blobs blob.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		files:  files,
		blobs:  blobs,
		logger: logger,
	}
}

// Process runs one extraction job to completion. It never returns an error:
// every failure mode is absorbed here. The merge is keyed by object key and
// is idempotent, so redelivered jobs just write the same metadata again; a
// job whose record was deleted in the meantime discards its result
// silently.
func (p *Pipeline) Process(ctx context.Context, job queue.Job) {
	logger := p.logger.With("job_id", job.ID, "object_key", job.ObjectKey)

	data, err := p.fetch(ctx, job.ObjectKey)
	if err != nil {
		logger.Warn("extraction skipped, blob unavailable", "error", err)
		return
	}

	var meta map[string]any
	switch job.ContentType {
	case models.MIMEPDF:
		meta, err = ExtractPDF(data)
	case models.MIMEDOC, models.MIMEDOCX:
		meta, err = ExtractDOCX(data)
	default:
		// Only the two families admitted by upload validation are
		// recognized; anything else produces no metadata.
		logger.Debug("no extractor for content type", "content_type", job.ContentType)
		return
	}
	if err != nil {
		logger.Warn("extraction failed", "content_type", job.ContentType, "error", err)
		return
	}

	matched, err := p.files.SetMetadata(ctx, job.ObjectKey, meta)
	if err != nil {
		logger.Warn("failed to merge metadata", "error", err)
		return
	}
	if !matched {
		logger.Debug("record gone before extraction completed, discarding result")
		return
	}

	logger.Info("metadata extracted", "content_type", job.ContentType)
}

func (p *Pipeline) fetch(ctx context.Context, objectKey string) ([]byte, error) {
	body, err := p.blobs.Get(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}
