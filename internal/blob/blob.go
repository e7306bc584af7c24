// Package blob defines the object-storage capability used by the file
// lifecycle, the download path and the extraction pipeline. Keys live in a
// flat string namespace.
package blob

import (
	"context"
	"io"
)

// Store is the object-storage contract. Implementations are injected
// explicitly into the services that need them; there is no process-wide
// client.
type Store interface {
	// Put writes an object under key.
	Put(ctx context.Context, key string, data io.Reader, size int64, contentType string) error

	// Get opens a forward-only byte stream for the object. The caller must
	// close the returned reader on every exit path.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat reports whether the object exists. Returns domain.ErrNotFound
	// when it does not.
	Stat(ctx context.Context, key string) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
