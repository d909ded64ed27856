// Package events delivers MatchPlayed notifications to subscribers outside the
// league service.
package events

import (
	"context"
	"sync"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

// Fanout forwards each event to every registered notifier in order.
type Fanout struct {
	mu   sync.RWMutex
	subs []league.Notifier
}

func NewFanout(subs ...league.Notifier) *Fanout {
	f := &Fanout{}
	for _, s := range subs {
		f.Subscribe(s)
	}
	return f
}

// Subscribe adds n; nil is ignored.
func (f *Fanout) Subscribe(n league.Notifier) {
	if n == nil {
		return
	}
	f.mu.Lock()
	f.subs = append(f.subs, n)
	f.mu.Unlock()
}

func (f *Fanout) MatchPlayed(ev league.MatchPlayed) {
	f.mu.RLock()
	subs := f.subs
	f.mu.RUnlock()
	for _, s := range subs {
		s.MatchPlayed(ev)
	}
}

// Channel is a notifier that buffers events for a consumer goroutine. When
// the buffer is full the event is dropped and counted.
type Channel struct {
	C       chan league.MatchPlayed
	mu      sync.Mutex
	dropped int
}

func NewChannel(size int) *Channel {
	return &Channel{C: make(chan league.MatchPlayed, size)}
}

func (c *Channel) MatchPlayed(ev league.MatchPlayed) {
	select {
	case c.C <- ev:
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
	}
}

func (c *Channel) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Run hands buffered events to n until ctx is done, then delivers whatever
// is still buffered and returns.
func (c *Channel) Run(ctx context.Context, n league.Notifier) {
	for {
		select {
		case ev := <-c.C:
			n.MatchPlayed(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-c.C:
					n.MatchPlayed(ev)
				default:
					return
				}
			}
		}
	}
}
