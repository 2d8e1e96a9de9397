// Package broadcast is the live-update fan-out collaborator (C6): a
// lossy, best-effort publisher that the match engine and tournament
// driver push MatchOutcome events through, and that WebSocket clients
// subscribe to.
package broadcast

import "context"

// Publisher is the narrow interface the core depends on. publish is
// best-effort and MUST NOT block the caller; a slow or absent subscriber
// is the subscriber's problem, not the publisher's (§4.6/§5).
type Publisher interface {
	Publish(ctx context.Context, serialisedOutcome []byte)
}
