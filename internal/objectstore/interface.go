// Package objectstore is the blob-storage adapter the index builder
// reads vector data from and writes artifacts to. Core code only ever
// calls ReadBlob/WriteBlob; the concrete backend (S3 or in-memory) is
// selected per build by Factory, keyed on the request's
// repository_type, matching the original source's
// ObjectStoreFactory.create_object_store.
package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a blob path does not exist.
var ErrNotFound = errors.New("objectstore: blob not found")

// Store is the narrow blob-I/O contract the builder adapter (C7)
// depends on.
type Store interface {
	// ReadBlob opens the blob at path for reading. The caller must
	// close the returned reader.
	ReadBlob(ctx context.Context, path string) (io.ReadCloser, error)

	// WriteBlob stores the contents of r at path, replacing any
	// existing blob there.
	WriteBlob(ctx context.Context, path string, r io.Reader) error
}
