// Package debounce coalesces bursts of values into one delivery after a
// quiet period
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input
const DefaultDelay = 200 * time.Millisecond

// Debouncer delivers the most recent triggered value once no new value has
// arrived for the configured delay. Earlier values are dropped; the last
// one is never lost
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	pending bool
	value   T
	seq     uint64
	stopped bool
}

// New returns a debouncer calling fn on its own goroutine
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v and restarts the quiet period
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.value = v
	d.pending = true
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// A newer Trigger or a Flush already took over
	if !d.pending || seq != d.seq || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.mu.Unlock()
	d.fn(v)
}

// Flush delivers a pending value immediately on the caller's goroutine.
// It reports whether anything was pending
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.value
	d.pending = false
	d.seq++
	d.mu.Unlock()
	d.fn(v)
	return true
}

// Stop cancels any pending delivery and ignores further triggers
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
