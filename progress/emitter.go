package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/teranos/xlat/logger"
)

// Emitter presents progress to a user or a consuming process.
//
// Implementations include:
// - CLIEmitter: Pretty-printed terminal output using pterm
// - JSONEmitter: Structured JSON lines for tooling
type Emitter interface {
	// EmitStage announces a run phase, such as a platform pass.
	EmitStage(stage string, message string)

	// EmitNode reports a finished node.
	EmitNode(e *Entry)

	// EmitDiagnostic reports the first occurrence of a message outside node scope.
	EmitDiagnostic(message string)

	// EmitError reports a run-level failure.
	EmitError(runID string, err error)

	// EmitComplete reports the run summary.
	EmitComplete(s Summary)
}

type discard struct{}

func (discard) EmitStage(string, string) {}
func (discard) EmitNode(*Entry) {}
func (discard) EmitDiagnostic(string) {}
func (discard) EmitError(string, error) {}
func (discard) EmitComplete(Summary) {}

// CLIEmitter prints progress to the terminal using pterm. At verbosity 0
// only failures and the summary are shown.
type CLIEmitter struct {
	verbosity int
}

// NewCLIEmitter creates a terminal emitter.
func NewCLIEmitter(verbosity int) *CLIEmitter {
	return &CLIEmitter{verbosity: verbosity}
}

func (e *CLIEmitter) EmitStage(stage string, message string) {
	if !logger.ShouldOutput(e.verbosity, logger.OutputProgress) {
		return
	}
	pterm.Printf("🔄 %s: %s\n", pterm.LightCyan(stage), message)
}

func (e *CLIEmitter) EmitNode(entry *Entry) {
	indent := strings.Repeat("  ", entry.Depth)
	switch {
	case entry.Status == Failed:
		pterm.Printf("%s%s %s [%s] %v\n", indent, pterm.Red("✗"), entry.Node, entry.Platform, entry.Err)
	case logger.ShouldOutput(e.verbosity, logger.OutputTiming):
		pterm.Printf("%s%s %s [%s] %s\n", indent, pterm.Green("✓"), entry.Node, entry.Platform,
			pterm.Gray(entry.Duration().Round(time.Microsecond).String()))
	case logger.ShouldOutput(e.verbosity, logger.OutputProgress) && entry.Depth <= 2:
		pterm.Printf("%s%s %s\n", indent, pterm.Green("✓"), entry.Node)
	}
}

func (e *CLIEmitter) EmitDiagnostic(message string) {
	pterm.Warning.Println(message)
}

func (e *CLIEmitter) EmitError(runID string, err error) {
	pterm.Error.Printf("Run %s: %v\n", runID, err)
}

func (e *CLIEmitter) EmitComplete(s Summary) {
	if s.Failed == 0 && s.State == "completed" {
		pterm.Success.Printf("Translated %s nodes\n", pterm.Green(fmt.Sprintf("%d", s.Translated)))
	} else {
		pterm.Warning.Printf("Run %s: %d translated, %d failed\n", s.State, s.Translated, s.Failed)
	}
	if !logger.ShouldOutput(e.verbosity, logger.OutputRunSummary) {
		return
	}
	data := pterm.TableData{
		{"run", s.RunID},
		{"platforms", strings.Join(s.Platforms, ", ")},
		{"skipped", fmt.Sprint(s.Skipped)},
		{"requests", fmt.Sprint(s.Requests)},
		{"discarded", fmt.Sprint(s.Discarded)},
		{"output errors", fmt.Sprint(s.OutputErrors)},
		{"diagnostics", fmt.Sprintf("%d (+%d repeated)", s.Diagnostics, s.Duplicates)},
		{"duration", s.Duration.Round(time.Millisecond).String()},
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}

// ProgressEvent is one JSON line written by JSONEmitter.
type ProgressEvent struct {
	Type      string                 `json:"type"` // "stage", "node", "diagnostic", "error", "complete"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONEmitter writes one JSON object per line.
type JSONEmitter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONEmitter writes to w, or stdout when w is nil.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONEmitter{encoder: json.NewEncoder(w), now: time.Now}
}

func (e *JSONEmitter) emit(typ string, data map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.encoder.Encode(ProgressEvent{Type: typ, Timestamp: e.now(), Data: data})
}

func (e *JSONEmitter) EmitStage(stage string, message string) {
	e.emit("stage", map[string]interface{}{
		"stage":   stage,
		"message": message,
	})
}

func (e *JSONEmitter) EmitNode(entry *Entry) {
	data := map[string]interface{}{
		"node":     entry.Node,
		"kind":     entry.Kind.String(),
		"platform": entry.Platform,
		"status":   entry.Status.String(),
		"depth":    entry.Depth,
	}
	if entry.Err != nil {
		data["error"] = entry.Err.Error()
	}
	e.emit("node", data)
}

func (e *JSONEmitter) EmitDiagnostic(message string) {
	e.emit("diagnostic", map[string]interface{}{"message": message})
}

func (e *JSONEmitter) EmitError(runID string, err error) {
	e.emit("error", map[string]interface{}{
		"run_id": runID,
		"error":  err.Error(),
	})
}

func (e *JSONEmitter) EmitComplete(s Summary) {
	e.emit("complete", map[string]interface{}{
		"run_id":        s.RunID,
		"state":         s.State,
		"platforms":     s.Platforms,
		"translated":    s.Translated,
		"failed":        s.Failed,
		"skipped":       s.Skipped,
		"requests":      s.Requests,
		"discarded":     s.Discarded,
		"output_errors": s.OutputErrors,
		"diagnostics":   s.Diagnostics,
		"duplicates":    s.Duplicates,
		"duration_ms":   s.Duration.Milliseconds(),
	})
}
