// Package engine walks the object model, drives a Translator over every
// node and reports progress through paired Translating/Translated events.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata/live"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/symbols"
)

// State is the engine lifecycle state.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Failure records one failed node.
type Failure struct {
	Node     string
	Platform string
	Err      error
}

// Result summarizes a run.
type Result struct {
	RunID     string
	State     State
	Platforms []string

	Translated int
	Failed     int
	Skipped    int

	Requests     int
	Discarded    int
	OutputErrors int

	Failures []Failure
	Duration time.Duration
}

// Engine runs translations. One run may be active at a time.
type Engine struct {
	translator Translator
	sink       RequestSink
	settings   Settings
	assemblies *symbols.AssemblyResolver
	indentUnit string
	logger     *zap.SugaredLogger

	state atomic.Int32

	mu             sync.Mutex
	observers      []Observer
	errorObservers []ErrorObserver
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger injects the engine logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithAssemblyResolver enables resolution of cross-assembly references.
func WithAssemblyResolver(r *symbols.AssemblyResolver) Option {
	return func(e *Engine) { e.assemblies = r }
}

// WithIndentUnit overrides DefaultIndentUnit.
func WithIndentUnit(unit string) Option {
	return func(e *Engine) { e.indentUnit = unit }
}

// New creates an engine. The translator must already be configured.
func New(t Translator, sink RequestSink, settings Settings, opts ...Option) *Engine {
	e := &Engine{
		translator: t,
		sink:       sink,
		settings:   settings,
		indentUnit: DefaultIndentUnit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = DiscardSink{}
	}
	if e.logger == nil {
		e.logger = logger.ComponentLogger("engine")
	}
	return e
}

// Settings returns the engine settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Subscribe adds a node event observer.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// OnError adds a run-level error observer.
func (e *Engine) OnError(o ErrorObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errorObservers = append(e.errorObservers, o)
}

// acquire moves the engine to Running unless a run is already active.
func (e *Engine) acquire() bool {
	for {
		s := e.state.Load()
		if State(s) == Running {
			return false
		}
		if e.state.CompareAndSwap(s, int32(Running)) {
			return true
		}
	}
}

// TranslateBundle runs a translation synchronously.
func (e *Engine) TranslateBundle(ctx context.Context, b *model.Bundle) (*Result, error) {
	if !e.acquire() {
		return nil, errors.Wrap(errors.ErrBusy, "translation already running")
	}
	return e.run(ctx, b, uuid.NewString())
}

func (e *Engine) run(ctx context.Context, b *model.Bundle, runID string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: runID, Platforms: e.settings.Platforms()}
	runLog := logger.ChildLogger(e.logger, logger.FieldRunID, runID)
	absorbed := sinkFailures(e.sink)

	finish := func(state State, err error) (*Result, error) {
		res.State = state
		res.OutputErrors += sinkFailures(e.sink) - absorbed
		res.Duration = time.Since(start)
		e.state.Store(int32(state))
		if err != nil {
			e.reportError(runID, err)
		}
		runLog.Infow("translation finished",
			logger.FieldState, state.String(),
			"translated", res.Translated,
			"failed", res.Failed,
			"skipped", res.Skipped,
			"requests", res.Requests,
			logger.FieldDurationMS, res.Duration.Milliseconds())
		return res, err
	}

	if b == nil {
		return finish(Failed, errors.Mark(errors.New("no bundle to translate"), errors.ErrBundle))
	}
	if e.translator == nil {
		return finish(Failed, errors.Mark(errors.New("no translator loaded"), errors.ErrLoad))
	}

	resolver, err := e.newResolver(b, runLog)
	if err != nil {
		return finish(Failed, errors.Mark(err, errors.ErrFatal))
	}

	runLog.Infow("translation started",
		logger.FieldAssembly, b.Name(),
		logger.FieldPlatform, res.Platforms)

	p := &pass{
		engine:      e,
		ctx:         ctx,
		bundle:      b,
		resolver:    resolver,
		res:         res,
		logger:      runLog,
		observers:   e.snapshotObservers(),
		types:       make(map[string]bool),
		refFailures: make(map[string]error),
	}
	for _, t := range e.settings.TargetTypes {
		p.types[t] = true
	}

	if err := p.walk(); err != nil {
		if errors.Is(err, errors.ErrCancelled) {
			return finish(Cancelled, err)
		}
		return finish(Failed, err)
	}
	return finish(Completed, nil)
}

func (e *Engine) newResolver(b *model.Bundle, log *zap.SugaredLogger) (*annotation.Resolver, error) {
	opts := []annotation.Option{
		annotation.WithDefaultOnly(e.settings.UseDefaultOnly),
		annotation.WithTypeChecker(symbols.NewTypeIndex(b, e.assemblies, e.settings.StrictResolution)),
		annotation.WithLogger(log),
	}
	if b.Namesake != nil {
		m, err := symbols.NewMatcher(b, live.Load(b.Namesake), log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, annotation.WithNamesakes(m))
	}
	return annotation.NewResolver(opts...), nil
}

func (e *Engine) snapshotObservers() []Observer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Observer(nil), e.observers...)
}

func (e *Engine) reportError(runID string, err error) {
	e.mu.Lock()
	obs := append([]ErrorObserver(nil), e.errorObservers...)
	e.mu.Unlock()
	for _, o := range obs {
		o(runID, err)
	}
}
