// Package live turns committed database changes into per-document snapshot
// streams. A trigger in the schema fires pg_notify on every trip and user
// write; Listener holds the one LISTEN connection, Hub fans wake-ups out to
// subscribers, and Watcher re-fetches and decodes the document on each
// wake-up, emitting a stream equivalent to a document-store live
// subscription: initial snapshot, then one snapshot per commit from any
// session, with not-found as a distinguished state.
package live

import "sync"

// Hub distributes notification wake-ups to subscribers keyed by
// (channel, document id). Wake-ups carry no payload: they only tell the
// subscriber that the document may have changed and should be re-fetched.
// Signals are coalesced — a subscriber that has not consumed its pending
// wake-up does not queue further ones, which is safe because each wake-up
// triggers a fresh read of current state.
type Hub struct {
	mu   sync.Mutex
	subs map[hubKey]map[chan struct{}]struct{}
}

type hubKey struct {
	channel string
	key     string
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[hubKey]map[chan struct{}]struct{})}
}

// Subscribe registers interest in (channel, key) and returns a wake-up
// channel plus a cancel function. Cancel is idempotent: calling it more than
// once, or after the hub has been torn down, is harmless. After cancel
// returns no further wake-ups are delivered and the channel is closed.
func (h *Hub) Subscribe(channel, key string) (<-chan struct{}, func()) {
	wake := make(chan struct{}, 1)
	k := hubKey{channel: channel, key: key}

	h.mu.Lock()
	set, ok := h.subs[k]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.subs[k] = set
	}
	set[wake] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[k]; ok {
				delete(set, wake)
				if len(set) == 0 {
					delete(h.subs, k)
				}
			}
			h.mu.Unlock()
			close(wake)
		})
	}
	return wake, cancel
}

// Broadcast wakes every subscriber registered for (channel, key).
// The send is non-blocking: a subscriber with a pending wake-up is skipped,
// coalescing bursts of commits into a single re-fetch.
func (h *Hub) Broadcast(channel, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for wake := range h.subs[hubKey{channel: channel, key: key}] {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}
