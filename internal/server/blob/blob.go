// Package blob stores attachment bytes. Metadata lives in the relational
// store; this package only moves opaque byte streams keyed by attachment id.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists under the given key.
var ErrNotFound = errors.New("blob not found")

// Store is the byte-storage interface. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores size bytes from r under key.
	Put(ctx context.Context, key, contentType string, size int64, r io.Reader) error

	// Get opens the object stored under key. The caller closes the reader.
	// Returns ErrNotFound when no object exists.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key. Deleting a missing object
	// is not an error.
	Delete(ctx context.Context, key string) error
}
