package journal

import (
	"context"
	"sync"

	"inkwell/internal/logging"
)

// ChangeKind describes what happened to an entry.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change is published after every applied mutation.
type Change struct {
	OwnerID uint64     `json:"-"`
	EntryID string     `json:"entry_id"`
	Day     Day        `json:"day"`
	Kind    ChangeKind `json:"kind"`
}

// Hub fans changes out to the subscribers of the affected owner.
// The zero value is not usable; call NewHub.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]map[chan Change]struct{}
	logger logging.Logger
}

func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Hub{subs: map[uint64]map[chan Change]struct{}{}, logger: logger}
}

// Subscribe streams the owner's changes until ctx is cancelled. Callers
// should drain the returned channel; a subscriber that falls behind misses
// changes rather than blocking writers. The channel is closed once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, ownerID uint64) <-chan Change {
	ch := make(chan Change, 32)

	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = map[chan Change]struct{}{}
	}
	h.subs[ownerID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[ownerID], ch)
		if len(h.subs[ownerID]) == 0 {
			delete(h.subs, ownerID)
		}
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (h *Hub) Publish(c Change) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[c.OwnerID] {
		select {
		case ch <- c:
		default:
			h.logger.Warn("dropping change for slow subscriber", "owner", c.OwnerID, "entry", c.EntryID)
		}
	}
}
