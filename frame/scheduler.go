package frame

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gekko3d/gekko-grid/grid"
)

// ColorScheduler regenerates the color table on a fixed interval and posts
// each one to a Mailbox.
type ColorScheduler struct {
	Rows, Cols int
	Interval   time.Duration
	Mailbox    *Mailbox
	// Rand is optional; nil uses the global source.
	Rand *rand.Rand

	// now is swapped in tests
	now func() time.Time
}

// StopHandle cancels a running scheduler.
type StopHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the schedule and waits for its goroutine to return. It is
// safe to call more than once.
func (h *StopHandle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the scheduler goroutine has exited.
func (h *StopHandle) Done() <-chan struct{} {
	return h.done
}

// Start posts one request right away and another on every tick until ctx
// is cancelled or the returned handle is stopped.
func (s *ColorScheduler) Start(ctx context.Context) *StopHandle {
	if s.Interval <= 0 {
		panic("ColorScheduler: interval must be positive")
	}
	if s.Mailbox == nil {
		panic("ColorScheduler: nil mailbox")
	}
	now := s.now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &StopHandle{cancel: cancel, done: make(chan struct{})}

	var seq uint64
	post := func() {
		seq++
		s.Mailbox.Offer(Request{
			ID:     uuid.New(),
			Seq:    seq,
			Colors: grid.GenerateColors(s.Rows, s.Cols, s.Rand),
			Issued: now(),
		})
	}

	post()
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				post()
			}
		}
	}()
	return h
}
