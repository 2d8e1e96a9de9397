package broadcast

import (
	"context"
	"sync"
)

// subscriberBuffer bounds how many un-consumed messages a subscriber can
// fall behind by before new ones are dropped for it specifically.
const subscriberBuffer = 32

// Hub is a lossy fan-out broadcaster: every subscriber gets its own
// buffered channel, and a full channel drops the message rather than
// blocking Publish. This mirrors both the original implementation's
// tokio::sync::broadcast (bounded ring, lagging receivers skip ahead) and
// the teacher's per-connection gorilla/websocket send loop in
// internal/api/handler.go, generalised here to decouple the fan-out from
// any one transport.
type Hub struct {
	mu          sync.Mutex
	subscribers map[int]chan []byte
	nextID      int
}

// NewHub returns an empty broadcaster.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]chan []byte)}
}

// Subscribe registers a new listener and returns its channel plus an
// unsubscribe func the caller must invoke when done (typically on
// WebSocket disconnect).
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan []byte, subscriberBuffer)
	h.subscribers[id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Publish implements Publisher. It never blocks: a subscriber whose
// channel is full simply misses this message.
func (h *Hub) Publish(ctx context.Context, serialisedOutcome []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- serialisedOutcome:
		default:
		}
	}
}
