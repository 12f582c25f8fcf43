// Package debounce coalesces bursts of values into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers the most recent pushed value to fn once no new value
// has arrived for the wait window. Stop must be called by the owner on
// teardown so no timer fires after it is gone.
type Debouncer[T any] struct {
	wait time.Duration
	fn   func(T)

	mu         sync.Mutex
	timer      *time.Timer
	pending    T
	hasPending bool
	gen        uint64
	stopped    bool
}

func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{wait: wait, fn: fn}
}

// Push replaces any pending value and restarts the window.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = v
	d.hasPending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Pending returns the value waiting to be delivered, if any.
func (d *Debouncer[T]) Pending() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// Flush delivers the pending value immediately. It reports whether a value was delivered.
func (d *Debouncer[T]) Flush() bool {
	v, ok := d.take()
	if ok {
		d.fn(v)
	}
	return ok
}

// Cancel drops the pending value without delivering it.
func (d *Debouncer[T]) Cancel() {
	d.take()
}

// Stop cancels the pending value and ignores every later Push.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.Cancel()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.hasPending {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.clear()
	d.mu.Unlock()

	d.fn(v)
}

func (d *Debouncer[T]) take() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.pending, d.hasPending
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.clear()
	return v, ok
}

// clear must be called with mu held.
func (d *Debouncer[T]) clear() {
	var zero T
	d.pending = zero
	d.hasPending = false
}
