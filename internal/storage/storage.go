// Package storage wraps the bucket-oriented object store holding uploaded
// dataset files.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrObjectNotFound is returned by Get for an absent key.
	ErrObjectNotFound = errors.New("object not found")
	// ErrStorageUnavailable wraps any transport or service fault.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// ObjectStore is a thin key/blob interface over a named set of buckets.
type ObjectStore interface {
	// EnsureBuckets checks each configured bucket and creates any missing
	// one. Best-effort: a creation failure is logged and does not abort
	// the remaining buckets.
	EnsureBuckets(ctx context.Context)
	// Put writes data under key, overwriting any existing object.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// Get returns the stored bytes, or ErrObjectNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Delete removes the object. Best-effort: returns false on failure.
	Delete(ctx context.Context, bucket, key string) bool
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
