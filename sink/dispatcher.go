package sink

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
)

// Diagnostics receives output failures, typically the progress log.
type Diagnostics func(err error)

// Dispatcher forwards requests to a sink and reports failures to
// diagnostics instead of returning them, so output errors never abort a run.
type Dispatcher struct {
	next        engine.RequestSink
	diagnostics Diagnostics
	logger      *zap.SugaredLogger
	failures    atomic.Int64
}

// NewDispatcher wraps next. diagnostics may be nil.
func NewDispatcher(next engine.RequestSink, diagnostics Diagnostics, log *zap.SugaredLogger) *Dispatcher {
	if log == nil {
		log = logger.ComponentLogger("sink")
	}
	return &Dispatcher{next: next, diagnostics: diagnostics, logger: log}
}

func (d *Dispatcher) HandleFile(r engine.FileRequest) error {
	d.report(r.Path, d.next.HandleFile(r))
	return nil
}

func (d *Dispatcher) HandleContent(r engine.ContentRequest) error {
	d.report(r.Path, d.next.HandleContent(r))
	return nil
}

// Failures returns the number of requests that failed.
func (d *Dispatcher) Failures() int {
	return int(d.failures.Load())
}

func (d *Dispatcher) report(path string, err error) {
	if err == nil {
		return
	}
	if !errors.IsOutputError(err) {
		err = errors.Mark(err, errors.ErrOutput)
	}
	d.failures.Add(1)
	d.logger.Warnw("output request failed", logger.FieldPath, path, logger.FieldError, err)
	if d.diagnostics != nil {
		d.diagnostics(err)
	}
}
