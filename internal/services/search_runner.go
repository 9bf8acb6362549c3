package services

import (
	"context"
	"fmt"
	"halfway-service/internal/domain"
	"sync"
	"time"
)

// SearchRunner runs searches with latest-wins semantics.
//
// Starting a run cancels the previous in-flight run. A run that has been
// superseded reports ErrSuperseded whatever its own outcome was, so a stale
// answer never reaches the caller or the deliver callback.
type SearchRunner struct {
	timeout time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

func NewSearchRunner(timeout time.Duration) *SearchRunner {
	return &SearchRunner{timeout: timeout}
}

// Run executes fn with a context that is canceled when a newer run starts,
// the runner closes, ctx ends, or the timeout elapses.
//
// deliver, if non-nil, is called with the run's outcome only when the run is
// still the latest. It is called with the runner lock held and must not start
// another run.
func (r *SearchRunner) Run(
	ctx context.Context,
	fn func(ctx context.Context) ([]domain.Place, error),
	deliver func(seq uint64, places []domain.Place, err error),
) ([]domain.Place, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, fmt.Errorf("run search: %w", domain.ErrSessionClosed)
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq

	var runCtx context.Context
	var cancel context.CancelFunc
	if r.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	places, err := fn(runCtx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("run search %d: %w", seq, domain.ErrSessionClosed)
	}
	if seq != r.seq {
		return nil, fmt.Errorf("run search %d: %w", seq, domain.ErrSuperseded)
	}
	r.cancel = nil

	if deliver != nil {
		deliver(seq, places, err)
	}
	return places, err
}

// Cancel aborts the in-flight run, if any. The runner stays usable.
func (r *SearchRunner) Cancel() {
	r.cancelAnd(nil)
}

// cancelAnd cancels like Cancel and then runs fn under the runner lock,
// so no delivery can interleave with fn.
func (r *SearchRunner) cancelAnd(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	// Bump seq so the canceled run reports ErrSuperseded.
	r.seq++

	if fn != nil {
		fn()
	}
}

// Close cancels the in-flight run and rejects later runs.
func (r *SearchRunner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
