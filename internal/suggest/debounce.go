package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/cinesaver/cinesaver/internal/domain"
)

// DefaultQuietPeriod is the input-inactivity window before a query is
// dispatched.
const DefaultQuietPeriod = 300 * time.Millisecond

// Debouncer serializes keystroke-driven suggestion queries: a query is
// dispatched only after the quiet period elapses without newer input, and an
// in-flight response is dropped when a newer query has superseded it.
type Debouncer struct {
	svc   *Service
	quiet time.Duration

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
	out   chan Delivery
}

// Delivery carries the ranked candidates for the query that produced them.
type Delivery struct {
	Query      string
	Candidates []domain.CandidateSuggestion
}

// NewDebouncer wraps a Service with keystroke debouncing. A quiet duration
// of zero falls back to DefaultQuietPeriod.
func NewDebouncer(svc *Service, quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		svc:   svc,
		quiet: quiet,
		out:   make(chan Delivery, 1),
	}
}

// Results is the delivery channel. Only the most recent query's result is
// ever delivered; slower superseded responses are discarded.
func (d *Debouncer) Results() <-chan Delivery {
	return d.out
}

// Type registers one keystroke's worth of input. Short inputs clear pending
// work and deliver an empty list immediately without touching the network.
func (d *Debouncer) Type(ctx context.Context, query string) {
	d.mu.Lock()
	d.seq++
	mine := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(query) < minQueryLen {
		d.mu.Unlock()
		d.deliver(mine, Delivery{Query: query})
		return
	}

	d.timer = time.AfterFunc(d.quiet, func() {
		d.dispatch(ctx, mine, query)
	})
	d.mu.Unlock()
}

// Stop cancels any pending dispatch and invalidates in-flight responses.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) dispatch(ctx context.Context, mine uint64, query string) {
	candidates, err := d.svc.Suggest(ctx, query)
	if err != nil {
		// Best-effort path: log and deliver nothing rather than surface.
		d.svc.logger.Warn().Err(err).Str("query", query).Msg("suggestion lookup failed")
		return
	}

	d.deliver(mine, Delivery{Query: query, Candidates: candidates})
}

// deliver applies latest-wins semantics: a stale sequence is dropped, and an
// unread older delivery is displaced by the new one.
func (d *Debouncer) deliver(mine uint64, delivery Delivery) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if mine != d.seq {
		return
	}
	select {
	case d.out <- delivery:
	default:
		select {
		case <-d.out:
		default:
		}
		d.out <- delivery
	}
}
