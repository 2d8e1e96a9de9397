package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsarena/engine/internal/rps"
)

func TestInsertAssignsRegistryID(t *testing.T) {
	r := NewMemoryRegistry()
	bot := &rps.Bot{DisplayName: "rocky", Kind: rps.Native, BlobKey: "abc.wasm"}

	result, err := r.Insert(context.Background(), bot)
	require.NoError(t, err)
	assert.Equal(t, Created, result)
	require.NotNil(t, bot.RegistryID)
	assert.Equal(t, 1, *bot.RegistryID)
}

func TestInsertRejectsDuplicateActiveName(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	first := &rps.Bot{DisplayName: "rocky", Kind: rps.Native}
	_, err := r.Insert(ctx, first)
	require.NoError(t, err)

	second := &rps.Bot{DisplayName: "rocky", Kind: rps.Scripted}
	result, err := r.Insert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, NameTaken, result)
	assert.Nil(t, second.RegistryID)
}

func TestDisableRemovesFromListActive(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	bot := &rps.Bot{DisplayName: "rocky", Kind: rps.Native}
	_, err := r.Insert(ctx, bot)
	require.NoError(t, err)

	require.NoError(t, r.Disable(ctx, *bot.RegistryID))

	active, err := r.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDisableUnknownIDIsNoOp(t *testing.T) {
	r := NewMemoryRegistry()
	assert.NoError(t, r.Disable(context.Background(), 999))
}

func TestDisabledNameCanBeReused(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	bot := &rps.Bot{DisplayName: "rocky"}
	_, err := r.Insert(ctx, bot)
	require.NoError(t, err)
	require.NoError(t, r.Disable(ctx, *bot.RegistryID))

	again := &rps.Bot{DisplayName: "rocky"}
	result, err := r.Insert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, Created, result)
}
