package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/model"
)

// Run is a handle on a translation started with Start.
type Run struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	result *Result
	err    error
}

// Start runs a translation on its own goroutine. If a run is already
// active the returned handle is finished with errors.ErrBusy.
func (e *Engine) Start(ctx context.Context, b *model.Bundle) *Run {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &Run{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if !e.acquire() {
		r.err = errors.Wrap(errors.ErrBusy, "translation already running")
		cancel()
		close(r.done)
		return r
	}

	go func() {
		defer close(r.done)
		defer cancel()
		r.result, r.err = e.run(runCtx, b, r.id)
	}()
	return r
}

// ID returns the run id carried by every event of the run.
func (r *Run) ID() string {
	return r.id
}

// Cancel asks the run to stop at the next package or top-level kind.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes.
func (r *Run) Wait() (*Result, error) {
	<-r.done
	return r.result, r.err
}
