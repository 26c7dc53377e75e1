package realtime

import "sync"

// Registry tracks which identities currently have an open, authenticated
// delivery channel. It is the only shared mutable state in the real-time
// core; all three operations are atomic. Nothing is persisted — after a
// process restart every client re-authenticates its channel.
type Registry interface {
	// Register maps userID to conn, silently superseding any previous
	// connection for the same identity. The old connection is not closed; it
	// simply stops receiving targeted deliveries.
	Register(userID uint, conn Conn)
	// Unregister removes the mapping only if conn is still the connection
	// currently registered for userID.
	Unregister(userID uint, conn Conn)
	// Lookup returns the current connection for userID, if any.
	Lookup(userID uint) (Conn, bool)
	// Connections returns a snapshot of all registered connections.
	Connections() []Conn
}

type memoryRegistry struct {
	mu    sync.RWMutex
	conns map[uint]Conn
}

// NewRegistry returns an in-memory registry.
func NewRegistry() Registry {
	return &memoryRegistry{conns: make(map[uint]Conn)}
}

func (r *memoryRegistry) Register(userID uint, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = conn
}

func (r *memoryRegistry) Unregister(userID uint, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.conns[userID]
	if !ok || current.ID() != conn.ID() {
		// A newer connection replaced this one; leave it alone.
		return
	}
	delete(r.conns, userID)
}

func (r *memoryRegistry) Lookup(userID uint) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

func (r *memoryRegistry) Connections() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		snapshot = append(snapshot, conn)
	}
	return snapshot
}
