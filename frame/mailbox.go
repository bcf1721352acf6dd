package frame

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gekko3d/gekko-grid/grid"
)

// Request asks the renderer to draw the grid with a new color table.
type Request struct {
	ID     uuid.UUID
	Seq    uint64
	Colors grid.ColorTable
	Issued time.Time
}

// Mailbox is a single-slot channel of frame requests. A newer request
// replaces one that has not been taken yet.
type Mailbox struct {
	mu      sync.Mutex
	pending *Request
	dropped uint64
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Offer stores req and reports whether it superseded an untaken request.
func (m *Mailbox) Offer(req Request) bool {
	m.mu.Lock()
	superseded := m.pending != nil
	if superseded {
		m.dropped++
	}
	m.pending = &req
	m.mu.Unlock()
	return superseded
}

// Take returns the pending request without blocking.
func (m *Mailbox) Take() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return Request{}, false
	}
	req := *m.pending
	m.pending = nil
	return req, true
}

// Dropped is the number of requests that were replaced before being taken.
func (m *Mailbox) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
