package engine

import (
	"github.com/teranos/xlat/model"
)

// Phase is one half of a notification pair.
type Phase int

const (
	Translating Phase = iota
	Translated
)

func (p Phase) String() string {
	if p == Translating {
		return "Translating"
	}
	return "Translated"
}

// Artifact is what a translator reports for a node, typically emitted text.
type Artifact = any

// Event is a node lifecycle notification. Translating events carry no
// result yet and always report Success.
type Event struct {
	Phase    Phase
	Node     model.Node
	Artifact Artifact
	Success  bool
	Err      error
	Platform string
	RunID    string
}

// Observer receives node events on the run goroutine.
type Observer func(Event)

// ErrorObserver receives run-level failures: fatal errors, strict
// resolution aborts and cancellation.
type ErrorObserver func(runID string, err error)
