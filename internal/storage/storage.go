// Package storage provides object storage for publishing narrowed
// columnar files and their metadata sidecars.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUploadFailed       = errors.New("upload failed")
	ErrDownloadFailed     = errors.New("download failed")
	ErrDeleteFailed       = errors.New("delete failed")
)

// ObjectStorage abstracts the object store a narrowed file is published
// to. Implementations include S3 and a local filesystem store used in
// tests and single-node deployments.
type ObjectStorage interface {
	// Upload copies a local file to objectPath in the store.
	Upload(ctx context.Context, localPath, objectPath string) error

	// Download copies an object from the store to localPath.
	Download(ctx context.Context, objectPath, localPath string) error

	// Delete removes an object. Deleting a missing object is not an
	// error.
	Delete(ctx context.Context, objectPath string) error

	// Exists reports whether an object exists.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ConditionalPut uploads only if the stored object's ETag matches.
	// An empty etag means the object must not have been written through
	// this interface before.
	ConditionalPut(ctx context.Context, localPath, objectPath, etag string) error

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}
