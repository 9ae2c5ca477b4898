package core

import (
	"context"
	"errors"
	"time"
)

// ErrBlobNotFound is returned by any BlobStore when the named blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

type (
	// BlobObject describes a stored blob and its mutable metadata map.
	BlobObject struct {
		Name         string
		Container    string
		URL          string
		Size         int64
		ContentType  string
		LastModified time.Time
		Metadata     map[string]string
	}

	// BlobPutOptions qualifies an upload.
	BlobPutOptions struct {
		ContentType string
		Metadata    map[string]string
	}

	// BlobStore is any service that can hold named byte objects with a
	// mutable metadata map.
	BlobStore interface {
		// Put uploads content under key, overwriting any existing blob.
		Put(ctx context.Context, key string, content []byte, opts BlobPutOptions) (BlobObject, error)
		// Get downloads the blob content.
		Get(ctx context.Context, key string) (BlobObject, []byte, error)
		// Head returns the blob descriptor without its content.
		Head(ctx context.Context, key string) (BlobObject, error)
		// SetMetadata merges updates into the blob's metadata map.
		SetMetadata(ctx context.Context, key string, updates map[string]string) error
		// Delete removes the blob.
		Delete(ctx context.Context, key string) error
	}
)

// Scheduler runs jobs detached from the caller. Handlers schedule work they
// must not wait on; tests substitute a synchronous implementation.
type Scheduler interface {
	Schedule(name string, job func(ctx context.Context))
}
