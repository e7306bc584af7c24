// Package queue decouples metadata extraction from the upload request path.
// Upload enqueues a small job descriptor and returns; a worker dequeues it
// out-of-band. Delivery is at-least-once, which the extraction pipeline
// tolerates because its merge step is idempotent.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job describes one pending metadata extraction, keyed by the stored
// object's key and declared content type.
type Job struct {
	ID          string    `json:"id"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// NewJob creates a job descriptor with a fresh id.
func NewJob(objectKey, contentType string) Job {
	return Job{
		ID:          uuid.NewString(),
		ObjectKey:   objectKey,
		ContentType: contentType,
		EnqueuedAt:  time.Now().UTC(),
	}
}

// Queue is the job transport between the API server and the extraction
// workers.
type Queue interface {
	// Enqueue appends a job.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue blocks until a job is available or the context is cancelled.
	Dequeue(ctx context.Context) (Job, error)
}
