// Package notify owns the scheduled-notification timer set. The registry
// is the single writer: a schedule always replaces a device's previous
// set wholesale, and fired or cancelled entries are simply dropped.
// Pending sets live only for the process lifetime, the same way the
// browser may evict a service worker's timers. That is an accepted
// limitation, not something this package tries to fix.
package notify

import (
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog/log"

	"github.com/vakit-app/vakit/internal/model"
)

const (
	// DefaultMaxAhead is the sanity bound on how far in the future an
	// entry may trigger. Anything beyond it is a clock error or a stale
	// schedule and gets discarded.
	DefaultMaxAhead = 24 * time.Hour

	defaultTick = time.Second
)

// Publisher delivers a due notification to a device.
type Publisher interface {
	Publish(deviceID int, n model.Notification) error
}

// Registry holds the pending notification sets, one per device.
type Registry struct {
	clk      clock.Clock
	pub      Publisher
	maxAhead time.Duration
	tick     time.Duration

	mu      sync.Mutex
	pending map[int][]model.Notification
	done    chan struct{}
	once    sync.Once
}

// Option tweaks a Registry; used by tests to inject a fake clock and a
// fast tick.
type Option func(*Registry)

func WithClock(clk clock.Clock) Option {
	return func(r *Registry) { r.clk = clk }
}

func WithMaxAhead(d time.Duration) Option {
	return func(r *Registry) { r.maxAhead = d }
}

func WithTick(d time.Duration) Option {
	return func(r *Registry) { r.tick = d }
}

// NewRegistry creates a registry and starts its dispatch loop.
func NewRegistry(pub Publisher, opts ...Option) *Registry {
	r := &Registry{
		clk:      clock.New(),
		pub:      pub,
		maxAhead: DefaultMaxAhead,
		tick:     defaultTick,
		pending:  make(map[int][]model.Notification),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.dispatch()
	return r
}

// Schedule atomically replaces the device's pending set. Entries whose
// trigger is in the past or beyond the sanity bound are discarded. It
// returns how many entries were actually scheduled.
func (r *Registry) Schedule(deviceID int, entries []model.Notification) int {
	now := r.clk.Now()

	kept := make([]model.Notification, 0, len(entries))
	for _, e := range entries {
		delay := time.UnixMilli(e.TriggerAt).Sub(now)
		if delay <= 0 || delay > r.maxAhead {
			log.Debug().Int("device", deviceID).Int64("trigger_at", e.TriggerAt).
				Msg("discarding out-of-bounds notification")
			continue
		}
		kept = append(kept, e)
	}

	r.mu.Lock()
	if len(kept) == 0 {
		delete(r.pending, deviceID)
	} else {
		r.pending[deviceID] = kept
	}
	r.mu.Unlock()

	log.Info().Int("device", deviceID).Int("scheduled", len(kept)).
		Int("discarded", len(entries)-len(kept)).Msg("notification schedule replaced")
	return len(kept)
}

// Cancel clears the device's pending set without scheduling replacements.
func (r *Registry) Cancel(deviceID int) {
	r.mu.Lock()
	delete(r.pending, deviceID)
	r.mu.Unlock()
}

// Pending reports how many entries a device has waiting.
func (r *Registry) Pending(deviceID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending[deviceID])
}

// Close stops the dispatch loop. Pending entries are lost.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}

// dispatch fires due entries once per tick. The registry clock decides
// what is due, so a fake clock drives tests deterministically.
func (r *Registry) dispatch() {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.fireDue()
		}
	}
}

func (r *Registry) fireDue() {
	now := r.clk.Now()

	var due []struct {
		deviceID int
		n        model.Notification
	}

	r.mu.Lock()
	for deviceID, entries := range r.pending {
		remaining := entries[:0]
		for _, e := range entries {
			if e.TriggerAt <= now.UnixMilli() {
				due = append(due, struct {
					deviceID int
					n        model.Notification
				}{deviceID, e})
			} else {
				remaining = append(remaining, e)
			}
		}
		if len(remaining) == 0 {
			delete(r.pending, deviceID)
		} else {
			r.pending[deviceID] = remaining
		}
	}
	r.mu.Unlock()

	// Publish outside the lock; a slow broker must not block Schedule.
	for _, d := range due {
		if err := r.pub.Publish(d.deviceID, d.n); err != nil {
			log.Error().Err(err).Int("device", d.deviceID).Msg("notification publish failed")
		}
	}
}
