package tablequery

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ChangeEvent is the single outbound notification of the engine.
type ChangeEvent struct {
	Params Params `json:"params"`
	// PaginationOnly is true when the filters, sort order included, equal the
	// filters of the previous event. The first event is never pagination-only.
	PaginationOnly bool `json:"paginationOnly"`
}

// Listener receives ChangeEvents. Exactly one listener is registered per Store.
type Listener func(ChangeEvent)

// Scheduler schedules a coalesced emission. Implementations decide when fn
// runs; at most one emission may be pending at any instant.
type Scheduler interface {
	// Schedule replaces any pending emission with fn.
	Schedule(fn func())
	// Stop drops the pending emission, if any.
	Stop()
}

// DebounceScheduler is a trailing-edge debounce: every Schedule call cancels
// the pending timer and restarts it, so fn runs once the interval elapsed
// with no further calls.
type DebounceScheduler struct {
	interval time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

func NewDebounceScheduler(interval time.Duration) *DebounceScheduler {
	return &DebounceScheduler{interval: interval}
}

func (d *DebounceScheduler) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	// A timer that fired before Stop could cancel it still sees a stale
	// generation and does nothing.
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stale := gen != d.generation
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()

		if !stale {
			fn()
		}
	})
}

func (d *DebounceScheduler) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

// Interval returns the quiescence window.
func (d *DebounceScheduler) Interval() time.Duration {
	return d.interval
}

// ImmediateScheduler runs every emission synchronously. Useful in tests and
// in hosts that coalesce updates on their own.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(fn func()) { fn() }

func (ImmediateScheduler) Stop() {}

var (
	_ Scheduler = (*DebounceScheduler)(nil)
	_ Scheduler = ImmediateScheduler{}
)

// Notifier turns Notify calls into ChangeEvents for a single listener.
//
// Emission is gated: until Enable is called, Notify schedules nothing and an
// emission that still fires is dropped. Dropped or collapsed notifications are
// never replayed.
type Notifier struct {
	source    func() Params
	listener  Listener
	scheduler Scheduler
	logger    zerolog.Logger

	mu      sync.Mutex
	enabled bool
	// previous is nil until the first emission.
	previous *Filters
}

// NewNotifier creates a disabled notifier. source is called at emission time
// and must return the latest Params.
func NewNotifier(source func() Params, listener Listener, scheduler Scheduler) *Notifier {
	return &Notifier{
		source:    source,
		listener:  listener,
		scheduler: scheduler,
		logger:    zerolog.Nop(),
	}
}

// Enable opens the dispatch gate. There is no way to close it again.
func (n *Notifier) Enable() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.enabled = true
}

func (n *Notifier) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.enabled
}

// Notify schedules a coalesced emission of the latest Params.
func (n *Notifier) Notify() {
	if !n.Enabled() {
		n.logger.Debug().Msg("change notification suppressed: dispatch disabled")
		return
	}

	n.scheduler.Schedule(n.emit)
}

// Stop drops a pending emission.
func (n *Notifier) Stop() {
	n.scheduler.Stop()
}

func (n *Notifier) emit() {
	if !n.Enabled() {
		n.logger.Debug().Msg("change event dropped: dispatch disabled")
		return
	}

	params := n.source()

	n.mu.Lock()
	paginationOnly := n.previous != nil && params.Filters.Equal(*n.previous)
	snapshot := params.Filters.Clone()
	n.previous = &snapshot
	n.mu.Unlock()

	n.logger.Debug().
		Bool("paginationOnly", paginationOnly).
		Int("currentPage", params.Pagination.GetCurrentPage()).
		Msg("emitting change event")

	if n.listener != nil {
		n.listener(ChangeEvent{
			Params:         params,
			PaginationOnly: paginationOnly,
		})
	}
}
