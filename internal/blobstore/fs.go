package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// nativeModuleSuffix tags every key as holding a native WebAssembly
// module, per §6's "hex-encoded hash, suffixed with a module-type tag".
const nativeModuleSuffix = ".wasm"

// FSBlobStore is a directory-backed BlobStore, content-addressed by
// sha256. It is the reference implementation the ambient shell and
// integration tests run against.
type FSBlobStore struct {
	dir string
}

// NewFSBlobStore returns a store rooted at dir, creating it if absent.
func NewFSBlobStore(dir string) (*FSBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root %q: %w", dir, err)
	}
	return &FSBlobStore{dir: dir}, nil
}

func (s *FSBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:]) + nativeModuleSuffix
	path := filepath.Join(s.dir, key)

	if _, err := os.Stat(path); err == nil {
		return key, nil // already stored, content-addressed so this is a no-op
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o444); err != nil {
		return "", fmt.Errorf("blobstore: write %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("blobstore: commit %q: %w", key, err)
	}
	return key, nil
}

func (s *FSBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	// filepath.Base strips any path components a caller-supplied key
	// might carry, keeping reads confined to s.dir.
	path := filepath.Join(s.dir, filepath.Base(key))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("blobstore: read %q: %w", key, err)
	}
	return data, nil
}

// Load satisfies executor.BlobLoader, letting an *FSBlobStore be handed
// straight to executor.New without an adapter type.
func (s *FSBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.Get(ctx, key)
}
