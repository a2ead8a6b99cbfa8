// Package blobstore abstracts where model sources and snapshots live.
//
// IDF and IDD documents are read and written whole - there is no
// random-access path - so the interface is deliberately small: fetch,
// put, delete, list. Backends include an in-memory store for tests, the
// local filesystem, and object storage (MinIO, S3).
package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a named document does not exist.
//
// Implementations must return an error satisfying
// errors.Is(err, ErrNotFound). The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Store reads and writes whole named documents.
type Store interface {
	// Fetch returns the full contents of the named document.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Put writes the document atomically, replacing any previous contents.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes the document. Deleting a missing document is not an
	// error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all documents with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
