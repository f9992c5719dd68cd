package realtime

import (
	"sort"
	"sync"
)

// Handle represents a single live client connection capable of push delivery.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Handle interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains the mapping of online users to their live connections and
// announces the roster to every connection whenever that mapping changes.
// One handle per user: a reconnect replaces (and closes) the previous one.
type Hub struct {
	mu      sync.RWMutex
	handles map[string]Handle

	// announceMu serializes mutation+broadcast pairs. Without it, two
	// concurrent registrations could deliver their roster frames out of
	// order and leave a client holding the stale roster as its latest.
	announceMu sync.Mutex
}

// NewHub returns an empty hub. Handlers normally share the singleton from
// GetHub; tests construct their own.
func NewHub() *Hub {
	return &Hub{handles: make(map[string]Handle)}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register maps userID to handle. Latest wins: a handle already registered
// for the same user is closed so a reconnect cannot leak a stale connection.
// The updated roster is announced to all connections, including the new one.
func (h *Hub) Register(userID string, handle Handle) {
	h.announceMu.Lock()
	defer h.announceMu.Unlock()

	h.mu.Lock()
	old := h.handles[userID]
	h.handles[userID] = handle
	h.mu.Unlock()

	if old != nil && old != handle {
		old.Close()
	}
	h.announce()
}

// Unregister removes the mapping for userID, but only while it still points
// at the given handle; a teardown firing after the user already reconnected
// must not evict the new connection. Passing a nil handle removes the mapping
// unconditionally. Safe to call more than once.
func (h *Hub) Unregister(userID string, handle Handle) {
	h.announceMu.Lock()
	defer h.announceMu.Unlock()

	h.mu.Lock()
	current, ok := h.handles[userID]
	removed := ok && (handle == nil || current == handle)
	if removed {
		delete(h.handles, userID)
	}
	h.mu.Unlock()

	if removed {
		h.announce()
	}
}

// Lookup returns the live handle for userID. A missing entry simply means
// the user is offline.
func (h *Hub) Lookup(userID string) (Handle, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	handle, ok := h.handles[userID]
	return handle, ok
}

// OnlineUsers returns a sorted snapshot of all currently-registered user IDs.
// The roster is recomputed from the map on every call, never patched.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	users := make([]string, 0, len(h.handles))
	for id := range h.handles {
		users = append(users, id)
	}
	h.mu.RUnlock()

	sort.Strings(users)
	return users
}

// announce pushes the full roster to every live connection. Called with
// announceMu held, so broadcasts go out in mutation order. A failed send to
// one connection does not block the rest; the ws handler owns teardown of
// broken connections.
func (h *Hub) announce() {
	h.mu.RLock()
	users := make([]string, 0, len(h.handles))
	targets := make([]Handle, 0, len(h.handles))
	for id, handle := range h.handles {
		users = append(users, id)
		targets = append(targets, handle)
	}
	h.mu.RUnlock()

	sort.Strings(users)
	frame, err := Envelope{Event: EventOnlineUsers, Data: users}.Encode()
	if err != nil {
		return
	}
	for _, handle := range targets {
		handle.Send(frame)
	}
}
