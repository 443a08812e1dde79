// Package watcher re-runs the merge pipeline when an input document changes.
package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single callback that fires
// once no trigger has arrived for the configured delay.
type Debouncer struct {
	delay    time.Duration
	callback func()
	mu       sync.Mutex
	timer    *time.Timer
}

// NewDebouncer creates a Debouncer with the specified delay and callback.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Trigger schedules the callback, restarting the delay if one is pending.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != timer {
			// Superseded by a later Trigger or cancelled.
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		if d.callback != nil {
			d.callback()
		}
	})
	d.timer = timer
}

// Cancel drops a pending callback. It is a no-op when nothing is pending.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
