// Package progress records translation progress as a tree of entries
// mirroring the node walk and forwards it to an Emitter.
package progress

import (
	"sync"
	"time"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/model"
)

// Status is the outcome of an entry.
type Status int

const (
	Pending Status = iota
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Entry is one node of the progress tree.
type Entry struct {
	Node     string
	Kind     model.NodeKind
	Platform string
	Status   Status
	Err      error
	Depth    int
	Children []*Entry

	Started  time.Time
	Finished time.Time

	node   model.Node
	parent *Entry
}

// Duration is the time between the entry's two notifications.
func (e *Entry) Duration() time.Duration {
	if e.Finished.IsZero() || e.Started.IsZero() {
		return 0
	}
	return e.Finished.Sub(e.Started)
}

// Diagnostic is a deduplicated message outside node scope.
type Diagnostic struct {
	Message string
	Count   int
}

// Summary condenses a run result and the log's own counts.
type Summary struct {
	RunID        string        `json:"run_id"`
	State        string        `json:"state"`
	Platforms    []string      `json:"platforms"`
	Translated   int           `json:"translated"`
	Failed       int           `json:"failed"`
	Skipped      int           `json:"skipped"`
	Requests     int           `json:"requests"`
	Discarded    int           `json:"discarded"`
	OutputErrors int           `json:"output_errors"`
	Diagnostics  int           `json:"diagnostics"`
	Duplicates   int           `json:"duplicates"`
	Duration     time.Duration `json:"duration_ns"`
}

// Log builds the progress tree from engine events. It is safe for use
// from the run goroutine and the host at the same time.
type Log struct {
	mu      sync.Mutex
	emitter Emitter
	now     func() time.Time

	runID string
	roots []*Entry
	stack []*Entry

	seen        map[string]*Diagnostic
	diagnostics []*Diagnostic
	duplicates  int
}

// NewLog creates a log forwarding to emitter. A nil emitter records only.
func NewLog(emitter Emitter) *Log {
	if emitter == nil {
		emitter = discard{}
	}
	return &Log{
		emitter: emitter,
		now:     time.Now,
		seen:    make(map[string]*Diagnostic),
	}
}

// Attach subscribes the log to an engine's node and run-level events.
func (l *Log) Attach(e *engine.Engine) {
	e.Subscribe(l.Observe)
	e.OnError(l.RunError)
}

// Reset discards everything recorded.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runID = ""
	l.roots = nil
	l.stack = nil
	l.seen = make(map[string]*Diagnostic)
	l.diagnostics = nil
	l.duplicates = 0
}

// Observe records one engine event. With a narrow interest level the
// log may see Translated events without their Translating half; those
// become leaf entries under the innermost open entry.
func (l *Log) Observe(ev engine.Event) {
	l.mu.Lock()

	if ev.RunID != l.runID {
		if l.runID != "" {
			l.stack = nil
		}
		l.runID = ev.RunID
	}

	var finished *Entry
	var stage string
	switch ev.Phase {
	case engine.Translating:
		e := l.open(ev)
		l.stack = append(l.stack, e)
		if e.Kind == model.BundleNode {
			stage = ev.Platform
		}
	case engine.Translated:
		e := l.pop(ev.Node, ev.Platform)
		if e == nil {
			e = l.open(ev)
		}
		e.Finished = l.now()
		if ev.Success {
			e.Status = Succeeded
		} else {
			e.Status = Failed
			e.Err = ev.Err
		}
		finished = e
	}
	l.mu.Unlock()

	if stage != "" {
		l.emitter.EmitStage("platform", stage)
	}
	if finished != nil {
		l.emitter.EmitNode(finished)
	}
}

// Stage forwards a stage announcement to the emitter.
func (l *Log) Stage(stage, message string) {
	l.emitter.EmitStage(stage, message)
}

func (l *Log) open(ev engine.Event) *Entry {
	e := &Entry{
		Node:     nodeLabel(ev.Node),
		Kind:     nodeKind(ev.Node),
		Platform: ev.Platform,
		Started:  l.now(),
		node:     ev.Node,
	}
	if n := len(l.stack); n > 0 {
		parent := l.stack[n-1]
		e.parent = parent
		e.Depth = parent.Depth + 1
		parent.Children = append(parent.Children, e)
	} else {
		l.roots = append(l.roots, e)
	}
	return e
}

// pop closes the innermost open entry for node, discarding any open
// entries above it whose Translated event was filtered out.
func (l *Log) pop(node model.Node, platform string) *Entry {
	for i := len(l.stack) - 1; i >= 0; i-- {
		e := l.stack[i]
		if e.node == node && e.Platform == platform {
			l.stack = l.stack[:i]
			return e
		}
	}
	return nil
}

// Diagnostic records a message outside node scope, such as a failed
// output request. Repeats of an identical message are counted, not
// re-emitted.
func (l *Log) Diagnostic(err error) {
	if err == nil {
		return
	}
	if l.note(err.Error()) {
		l.emitter.EmitDiagnostic(err.Error())
	}
}

// RunError records a run-level failure.
func (l *Log) RunError(runID string, err error) {
	if err == nil {
		return
	}
	if l.note(err.Error()) {
		l.emitter.EmitError(runID, err)
	}
}

// note counts msg and reports whether it is new.
func (l *Log) note(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d, ok := l.seen[msg]; ok {
		d.Count++
		l.duplicates++
		return false
	}
	d := &Diagnostic{Message: msg, Count: 1}
	l.seen[msg] = d
	l.diagnostics = append(l.diagnostics, d)
	return true
}

// Complete emits and returns the summary of a finished run.
func (l *Log) Complete(r *engine.Result) Summary {
	l.mu.Lock()
	s := Summary{
		Diagnostics: len(l.diagnostics),
		Duplicates:  l.duplicates,
	}
	l.mu.Unlock()

	if r != nil {
		s.RunID = r.RunID
		s.State = r.State.String()
		s.Platforms = append([]string(nil), r.Platforms...)
		s.Translated = r.Translated
		s.Failed = r.Failed
		s.Skipped = r.Skipped
		s.Requests = r.Requests
		s.Discarded = r.Discarded
		s.OutputErrors = r.OutputErrors
		s.Duration = r.Duration
	}
	l.emitter.EmitComplete(s)
	return s
}

// Entries returns the root entries.
func (l *Log) Entries() []*Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Entry(nil), l.roots...)
}

// Diagnostics returns the deduplicated messages in first-seen order.
func (l *Log) Diagnostics() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.diagnostics))
	for i, d := range l.diagnostics {
		out[i] = *d
	}
	return out
}

// Failures returns every failed entry in walk order.
func (l *Log) Failures() []*Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*Entry
	var visit func([]*Entry)
	visit = func(entries []*Entry) {
		for _, e := range entries {
			if e.Status == Failed {
				out = append(out, e)
			}
			visit(e.Children)
		}
	}
	visit(l.roots)
	return out
}

func nodeLabel(n model.Node) string {
	if n == nil {
		return ""
	}
	return n.FullName()
}

func nodeKind(n model.Node) model.NodeKind {
	if n == nil {
		return model.BundleNode
	}
	return n.NodeKind()
}
