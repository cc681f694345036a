package variant

import (
	"sync"
	"time"
)

// DefaultDebounce is how long edits must be quiescent before the duplicate
// scan runs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces bursts of Schedule calls into a single execution of
// the most recently scheduled function. Each Schedule supersedes the pending
// one; Stop cancels whatever is pending so nothing fires after teardown.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Schedule queues fn to run after the quiet window. A pending fn from an
// earlier call is discarded, not run.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		fn := d.pending
		d.pending = nil
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Flush runs the pending function immediately, if any. Callers that need the
// result of the debounced work right now (submission, explicit reads) use
// this instead of waiting out the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop cancels any pending run. The debouncer accepts no further work.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.stopped = true
}
