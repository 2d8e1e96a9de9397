// Package blobstore is the content-addressed bytes collaborator (C6):
// native bot WebAssembly modules are stored once, keyed by the hash of
// their contents, and referenced from the registry by key rather than
// copied around.
package blobstore

import "context"

// BlobStore is the interface the executor and registry paths depend on.
type BlobStore interface {
	// Put stores data and returns a content-addressed key. Storing the
	// same bytes twice returns the same key.
	Put(ctx context.Context, data []byte) (key string, err error)

	// Get returns the bytes previously stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
}
