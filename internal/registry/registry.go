// Package registry is the bot registry collaborator (C6): the durable
// record of every submitted bot and whether it is still eligible to play.
package registry

import (
	"context"
	"errors"

	"github.com/rpsarena/engine/internal/rps"
)

// InsertResult reports the outcome of an Insert call.
type InsertResult int

const (
	Created InsertResult = iota
	NameTaken
)

// Registry is the interface the match/tournament layers depend on. The
// core never depends on a concrete storage technology.
type Registry interface {
	// ListActive returns every bot currently eligible to play, in no
	// particular order. Bytes is always empty; callers resolve native
	// bytes through the blob store by BlobKey on demand.
	ListActive(ctx context.Context) ([]*rps.Bot, error)

	// Insert stores a new bot. On Created, bot.RegistryID is populated
	// with the assigned id. On NameTaken, the bot is left unmodified.
	Insert(ctx context.Context, bot *rps.Bot) (InsertResult, error)

	// Disable marks a bot inactive so ListActive no longer returns it.
	// Disabling an unknown id is a no-op, matching the "absence of a
	// registry id skips disable silently" rule bots without ids rely on.
	Disable(ctx context.Context, id int) error
}

// ErrNotFound is returned by implementations that distinguish "unknown
// id" from other failures; Disable itself never returns it.
var ErrNotFound = errors.New("registry: bot not found")
