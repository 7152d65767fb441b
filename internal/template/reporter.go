package template

import (
	"sync"
	"time"

	"notibridge/internal/envelope"
)

// DefaultDebounce absorbs layout thrash from sequential state merges
// without visibly delaying window placement.
const DefaultDebounce = 40 * time.Millisecond

// Reporter measures the rendered dialog box after each render settles and
// reports it to the host, coalesced by a trailing-edge debounce: every
// Trigger restarts the single timer, so within a burst only the most
// recent measurement is ever sent. measure must cover the designated
// content root only; diagnostics are never part of the measured subtree.
type Reporter struct {
	interval time.Duration
	measure  func() envelope.Size
	send     func(envelope.Size) envelope.Response

	mu       sync.Mutex
	timer    *time.Timer
	last     *envelope.Size
	stopped  bool
	inFlight bool
	rearm    bool
}

// NewReporter wires a measurement source to a send function. A
// non-positive interval falls back to DefaultDebounce.
func NewReporter(interval time.Duration, measure func() envelope.Size, send func(envelope.Size) envelope.Response) *Reporter {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Reporter{interval: interval, measure: measure, send: send}
}

// Trigger (re)starts the debounce window. Call it on every
// render-completion signal.
func (r *Reporter) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.interval, r.flush)
}

// Stop cancels any pending report outright. Call it when the view is being
// torn down; the reporter stays stopped afterwards.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// flush runs when the debounce window closes: measure, skip if nothing
// changed since the last report the host accepted, otherwise send and
// record. A rejected send leaves last unset so the next trigger retries.
// At most one send is ever outstanding: a window that closes while a send
// is still blocked re-arms the debounce instead of starting a second send,
// so reports cannot complete out of trigger order.
func (r *Reporter) flush() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	if r.inFlight {
		r.rearm = true
		r.mu.Unlock()
		return
	}
	size := r.measure()
	if r.last != nil && *r.last == size {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()

	// Send outside the lock: the call crosses the bridge and may block on
	// the host's event loop.
	resp := r.send(size)

	r.mu.Lock()
	r.inFlight = false
	if resp.OK && !r.stopped {
		r.last = &size
	}
	rearm := r.rearm && !r.stopped
	r.rearm = false
	r.mu.Unlock()

	if rearm {
		r.Trigger()
	}
}
