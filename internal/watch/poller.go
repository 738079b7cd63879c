// Package watch polls the backend for agent status and artifact readiness.
// It owns the timing rules: a fixed status cadence with stale responses
// discarded, and a bounded art probe with cache busting.
package watch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gamedeck/internal/api"
)

// Update is one completed status poll. Seq increases with every request
// issued; consumers see Seq strictly increase because the poller drops
// responses that finish after a newer one already landed.
type Update struct {
	Seq    uint64
	Status *api.AgentStatus
	Err    error
}

// Poller issues status requests on a fixed cadence. Requests may overlap
// when the backend is slow; only the newest completed response is kept.
type Poller struct {
	client   *api.Client
	interval time.Duration

	issued  atomic.Uint64
	applied atomic.Uint64
}

// NewPoller builds a poller. A non-positive interval falls back to five
// seconds.
func NewPoller(client *api.Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{client: client, interval: interval}
}

// Run polls until ctx is canceled, sending kept updates on the returned
// channel. The first request fires immediately, then one per interval.
// The channel closes once ctx is done and all in-flight requests have
// been accounted for.
func (p *Poller) Run(ctx context.Context) <-chan Update {
	updates := make(chan Update, 1)
	results := make(chan Update)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		poll := func() {
			seq := p.issued.Add(1)
			go func() {
				status, err := p.client.Status(ctx)
				update := Update{Seq: seq, Err: err}
				if err == nil {
					update.Status = &status
				}
				select {
				case results <- update:
				case <-ctx.Done():
				}
			}()
		}

		poll()
		for {
			select {
			case <-ctx.Done():
				close(updates)
				return
			case <-ticker.C:
				poll()
			case update := <-results:
				if !p.apply(update.Seq) {
					continue
				}
				select {
				case updates <- update:
				case <-ctx.Done():
					close(updates)
					return
				}
			}
		}
	}()

	return updates
}

// Once issues a single immediate status request outside the cadence,
// stamped into the same sequence so a later slow tick cannot overwrite
// its result.
func (p *Poller) Once(ctx context.Context) Update {
	seq := p.issued.Add(1)
	status, err := p.client.Status(ctx)
	if !p.apply(seq) {
		return Update{Seq: seq, Err: fmt.Errorf("superseded by a newer response")}
	}
	update := Update{Seq: seq, Err: err}
	if err == nil {
		update.Status = &status
	}
	return update
}

// apply records seq as the newest applied response. It returns false when
// a response with a higher sequence already completed first.
func (p *Poller) apply(seq uint64) bool {
	for {
		current := p.applied.Load()
		if seq <= current {
			return false
		}
		if p.applied.CompareAndSwap(current, seq) {
			return true
		}
	}
}

// Changed reports whether next shows new conversation activity relative
// to prev: a different running state, a different message count, or a
// different final message.
func Changed(prev, next *api.AgentStatus) bool {
	if prev == nil || next == nil {
		return prev != next
	}
	if prev.IsOnline != next.IsOnline || prev.IsRunning != next.IsRunning {
		return true
	}
	if len(prev.ConversationLog) != len(next.ConversationLog) {
		return true
	}
	if n := len(next.ConversationLog); n > 0 {
		return string(prev.ConversationLog[n-1]) != string(next.ConversationLog[n-1])
	}
	return false
}
