package realtime

import "sync"

// Registry is the in-memory map from user identity to the live connection
// handle for that user. It is the single source of truth for "is this user
// currently reachable". One connection per user: registering a newer
// connection evicts the older one (last-write-wins).
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Client
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Client)}
}

// Register maps userID to c, returning the previously registered handle if
// one was displaced so the caller can close it.
func (r *Registry) Register(userID string, c *Client) (evicted *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted = r.byUser[userID]
	if evicted == c {
		evicted = nil
	}
	r.byUser[userID] = c
	return evicted
}

// Unregister removes the mapping for userID. When current is non-nil the
// mapping is only removed if it still points at current, so the teardown of
// an evicted connection cannot knock out its replacement. Reports whether a
// mapping was removed.
func (r *Registry) Unregister(userID string, current *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byUser[userID]
	if !ok {
		return false
	}
	if current != nil && existing != current {
		return false
	}
	delete(r.byUser, userID)
	return true
}

// Resolve returns the registered connection handle for userID, if any.
func (r *Registry) Resolve(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

// IsOnline reports whether userID currently has a registered connection.
func (r *Registry) IsOnline(userID string) bool {
	_, ok := r.Resolve(userID)
	return ok
}

// All returns a snapshot of every registered connection.
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.byUser))
	for _, c := range r.byUser {
		out = append(out, c)
	}
	return out
}
