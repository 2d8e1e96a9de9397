package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpsarena/engine/internal/rps"
)

type fakeBlobLoader struct {
	data map[string][]byte
	err  error
}

func (f *fakeBlobLoader) Load(ctx context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.data[key]
	if !ok {
		return nil, assert.AnError
	}
	return b, nil
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, 1000*time.Millisecond, l.Deadline)
	assert.EqualValues(t, 1_000_000_000, l.Fuel)
	assert.EqualValues(t, 1600, l.MaxMemoryPages)
	assert.EqualValues(t, 100*1024, l.MaxStdoutBytes)
	assert.EqualValues(t, 100*1024, l.MaxStderrBytes)
}

func TestLastLinePlay(t *testing.T) {
	cases := map[string]rps.Play{
		"rock":           rps.Rock,
		"Rock":           rps.Rock,
		"paper\n":        rps.Paper,
		"SCISSORS":       rps.Scissors,
		"garbage\nrock":  rps.Rock,
		"rock\n\n":       rps.Rock,
		"":                rps.Invalid,
		"9":               rps.Invalid,
		"0":               rps.Invalid,
	}
	for in, want := range cases {
		assert.Equal(t, want, lastLinePlay([]byte(in)), "input %q", in)
	}
}

func TestLoadNativeBytesPrefersInMemory(t *testing.T) {
	e := New(nil, DefaultLimits(), nil)
	bot := &rps.Bot{Kind: rps.Native, Bytes: []byte{0, 1, 2}}
	got, err := e.loadNativeBytes(context.Background(), bot)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, got)
}

func TestLoadNativeBytesFallsBackToBlobStore(t *testing.T) {
	loader := &fakeBlobLoader{data: map[string][]byte{"abc": {9, 9}}}
	e := New(nil, DefaultLimits(), loader)
	bot := &rps.Bot{Kind: rps.Native, BlobKey: "abc"}
	got, err := e.loadNativeBytes(context.Background(), bot)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, got)
}

func TestLoadNativeBytesErrorsWithoutBlobKeyOrBytes(t *testing.T) {
	e := New(nil, DefaultLimits(), nil)
	bot := &rps.Bot{Kind: rps.Native}
	_, err := e.loadNativeBytes(context.Background(), bot)
	assert.Error(t, err)
}

func TestLoadNativeBytesErrorsWithoutLoaderConfigured(t *testing.T) {
	e := New(nil, DefaultLimits(), nil)
	bot := &rps.Bot{Kind: rps.Native, BlobKey: "abc"}
	_, err := e.loadNativeBytes(context.Background(), bot)
	assert.Error(t, err)
}

func TestInvalidResultCarriesReason(t *testing.T) {
	r := invalidResult([]byte("in"), []byte("out"), []byte("err"), time.Second, rps.ReasonTimeout)
	assert.True(t, r.IsInvalid())
	assert.Equal(t, rps.ReasonTimeout, r.InvalidReason)
	assert.Equal(t, []byte("in"), r.StdinEcho)
}

func TestLimitedBufferTruncatesSilently(t *testing.T) {
	b := newLimitedBuffer(4)
	n, err := b.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, len("hello world"), n)
	assert.Equal(t, []byte("hell"), b.Bytes())
}

func TestLimitedBufferAccumulatesUnderLimit(t *testing.T) {
	b := newLimitedBuffer(100)
	b.Write([]byte("ab"))
	b.Write([]byte("cd"))
	assert.Equal(t, []byte("abcd"), b.Bytes())
}
