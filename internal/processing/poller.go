package processing

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Poller runs a refresh function on a fixed interval, bound to a context
// and guarded against overlapping runs: if a refresh is still in flight
// when the next tick fires, that tick is skipped.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context) error
	inflight atomic.Bool
}

// NewPoller creates a poller. The default queue view interval is 5s.
func NewPoller(interval time.Duration, refresh func(context.Context) error) *Poller {
	return &Poller{interval: interval, refresh: refresh}
}

// Run blocks until ctx is cancelled, firing the refresh on each tick.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick starts one refresh unless one is already running.
func (p *Poller) tick(ctx context.Context) {
	if !p.inflight.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.inflight.Store(false)
		if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
			fmt.Printf("[Poller] refresh error: %v\n", err)
		}
	}()
}
