package realtime

import (
	"log"
	"sync"
	"sync/atomic"
)

// Bus delivers events to connected clients. Delivery is best-effort: no
// queueing, no retry, no fallback persistence. The durable record of an event
// is the caller's responsibility (NotificationStore), not the bus's.
type Bus struct {
	registry Registry
}

func NewBus(registry Registry) *Bus {
	return &Bus{registry: registry}
}

// SendToUser delivers one event to the identity's current connection.
// Returns false, never an error, when the recipient is offline or the write
// fails — the recipient is simply treated as offline.
func (b *Bus) SendToUser(userID uint, event Event) bool {
	conn, ok := b.registry.Lookup(userID)
	if !ok {
		return false
	}
	if err := conn.Send(event); err != nil {
		log.Printf("realtime: send to user %d failed: %v", userID, err)
		return false
	}
	return true
}

// Broadcast delivers the event to every registered connection, fanning out in
// parallel. A failing connection never prevents delivery to the others.
// Returns the number of connections that accepted the write. Broadcast waits
// for every write to settle, so request-path producers submit it through a
// background runner instead of calling it inline.
func (b *Bus) Broadcast(event Event) int {
	conns := b.registry.Connections()

	var delivered int64
	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(c Conn) {
			defer wg.Done()
			if err := c.Send(event); err != nil {
				log.Printf("realtime: broadcast to conn %s failed: %v", c.ID(), err)
				return
			}
			atomic.AddInt64(&delivered, 1)
		}(conn)
	}
	wg.Wait()
	return int(delivered)
}
