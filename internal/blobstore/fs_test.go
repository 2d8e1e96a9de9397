package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Put(ctx, []byte("wasm bytes here"))
	require.NoError(t, err)
	assert.Contains(t, key, ".wasm")

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("wasm bytes here"), got)
}

func TestPutIsContentAddressed(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	k1, err := store.Put(ctx, []byte("same bytes"))
	require.NoError(t, err)
	k2, err := store.Put(ctx, []byte("same bytes"))
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestGetUnknownKeyErrors(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "doesnotexist.wasm")
	assert.Error(t, err)
}

func TestLoadAliasesGet(t *testing.T) {
	store, err := NewFSBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Put(ctx, []byte("loadable"))
	require.NoError(t, err)

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("loadable"), got)
}
