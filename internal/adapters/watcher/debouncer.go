// Package watcher notifies about changes to a fixed set of files.
package watcher

import (
	"cmp"
	"slices"
	"sync"
	"time"
	"unique"

	"go.trai.ch/manifold/internal/core/ports"
)

// Debouncer coalesces rapid file system events into one batch per quiet window.
// Only the last operation seen for a path is kept.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]ports.WatchOp
	timer    *time.Timer
	window   time.Duration
	callback func(events []ports.WatchEvent)
	inflight sync.WaitGroup
	stopped  bool
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(events []ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]ports.WatchOp),
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the quiet window.
func (d *Debouncer) Add(event ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[unique.Make(event.Path)] = event.Operation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs on the timer goroutine when the window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	events := d.drain()
	d.inflight.Add(1)
	d.mu.Unlock()

	defer d.inflight.Done()
	if d.callback != nil {
		d.callback(events)
	}
}

// Flush immediately delivers all pending events and blocks until the callback returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	events := d.drain()
	d.mu.Unlock()

	if d.callback != nil {
		d.callback(events)
	}
}

// Stop drops pending events and waits for a running callback to return.
// Events added afterwards are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
	d.mu.Unlock()

	d.inflight.Wait()
}

// drain must be called with d.mu held. Events are sorted by path.
func (d *Debouncer) drain() []ports.WatchEvent {
	events := make([]ports.WatchEvent, 0, len(d.pending))
	for handle, op := range d.pending {
		events = append(events, ports.WatchEvent{Path: handle.Value(), Operation: op})
	}
	clear(d.pending)

	slices.SortFunc(events, func(a, b ports.WatchEvent) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return events
}
