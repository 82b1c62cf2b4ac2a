package progress

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// =============================================================================
// Fixtures
// =============================================================================

type failingKinds struct {
	engine.BaseTranslator
}

func (f *failingKinds) TranslateKind(*engine.Context, *model.Kind) (engine.Artifact, error) {
	return nil, errors.New("kinds are not supported")
}

type recordingEmitter struct {
	stages      []string
	nodes       []string
	diagnostics []string
	errors      []string
	summaries   []Summary
}

func (r *recordingEmitter) EmitStage(stage, message string) {
	r.stages = append(r.stages, stage+":"+message)
}
func (r *recordingEmitter) EmitNode(e *Entry) {
	r.nodes = append(r.nodes, e.Node+"="+e.Status.String())
}
func (r *recordingEmitter) EmitDiagnostic(message string) {
	r.diagnostics = append(r.diagnostics, message)
}
func (r *recordingEmitter) EmitError(runID string, err error) {
	r.errors = append(r.errors, err.Error())
}
func (r *recordingEmitter) EmitComplete(s Summary) {
	r.summaries = append(r.summaries, s)
}

func tinyBundle() *model.Bundle {
	asm := &metadata.Assembly{
		Name:  "Tiny",
		Types: []*metadata.TypeDef{{Namespace: "N", Name: "K", Category: metadata.CategoryClass}},
	}
	metadata.Link(asm)
	return model.New(asm)
}

func runTiny(t *testing.T, interest engine.Interest, tr engine.Translator, log *Log) *engine.Result {
	t.Helper()
	s := engine.DefaultSettings()
	s.Interest = interest
	require.NoError(t, tr.Configure(s))
	e := engine.New(tr, nil, s)
	log.Attach(e)
	res, err := e.TranslateBundle(context.Background(), tinyBundle())
	require.NoError(t, err)
	return res
}

// =============================================================================
// Tree construction
// =============================================================================

func TestLogBuildsTree(t *testing.T) {
	rec := &recordingEmitter{}
	log := NewLog(rec)
	runTiny(t, engine.InterestAll, &engine.BaseTranslator{}, log)

	roots := log.Entries()
	require.Len(t, roots, 1)
	bundle := roots[0]
	assert.Equal(t, "Tiny", bundle.Node)
	assert.Equal(t, model.BundleNode, bundle.Kind)
	assert.Equal(t, Succeeded, bundle.Status)
	require.Len(t, bundle.Children, 1)

	pkg := bundle.Children[0]
	assert.Equal(t, "N", pkg.Node)
	assert.Equal(t, 1, pkg.Depth)
	require.Len(t, pkg.Children, 1)
	assert.Equal(t, "N.K", pkg.Children[0].Node)
	assert.Equal(t, 2, pkg.Children[0].Depth)

	assert.Equal(t, []string{"N.K=succeeded", "N=succeeded", "Tiny=succeeded"}, rec.nodes)
	assert.Equal(t, []string{"platform:*"}, rec.stages)
	assert.Empty(t, log.Failures())
}

func TestLogRecordsFailures(t *testing.T) {
	rec := &recordingEmitter{}
	log := NewLog(rec)
	res := runTiny(t, engine.InterestAll, &failingKinds{}, log)

	failures := log.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "N.K", failures[0].Node)
	assert.Contains(t, failures[0].Err.Error(), "kinds are not supported")

	s := log.Complete(res)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, res.RunID, s.RunID)
	require.Len(t, rec.summaries, 1)
}

func TestLogErrorsOnlyInterest(t *testing.T) {
	rec := &recordingEmitter{}
	log := NewLog(rec)
	runTiny(t, engine.InterestErrors, &failingKinds{}, log)

	roots := log.Entries()
	require.Len(t, roots, 1)
	assert.Equal(t, "N.K", roots[0].Node)
	assert.Equal(t, Failed, roots[0].Status)
	assert.Equal(t, 0, roots[0].Depth)
	assert.Empty(t, rec.stages)
}

// =============================================================================
// Deduplication and summary
// =============================================================================

func TestDiagnosticsAreDeduplicated(t *testing.T) {
	rec := &recordingEmitter{}
	log := NewLog(rec)

	log.Diagnostic(errors.New("disk full"))
	log.Diagnostic(errors.New("disk full"))
	log.Diagnostic(errors.New("permission denied"))
	log.Diagnostic(nil)
	log.RunError("r1", errors.New("disk full"))

	assert.Equal(t, []string{"disk full", "permission denied"}, rec.diagnostics)
	assert.Empty(t, rec.errors)
	assert.Equal(t, []Diagnostic{
		{Message: "disk full", Count: 3},
		{Message: "permission denied", Count: 1},
	}, log.Diagnostics())

	s := log.Complete(nil)
	assert.Equal(t, 2, s.Diagnostics)
	assert.Equal(t, 2, s.Duplicates)

	log.Reset()
	assert.Empty(t, log.Diagnostics())
	assert.Empty(t, log.Entries())
}

// =============================================================================
// Emitters
// =============================================================================

func TestJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLog(NewJSONEmitter(&buf))
	res := runTiny(t, engine.InterestAll, &failingKinds{}, log)
	log.Diagnostic(errors.New("write failed"))
	log.Complete(res)

	var types []string
	var failedNode map[string]interface{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var ev ProgressEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		types = append(types, ev.Type)
		if ev.Type == "node" && ev.Data["status"] == "failed" {
			failedNode = ev.Data
		}
	}
	assert.Equal(t, []string{"stage", "node", "node", "node", "diagnostic", "complete"}, types)
	require.NotNil(t, failedNode)
	assert.Equal(t, "N.K", failedNode["node"])
	assert.Equal(t, "kind", failedNode["kind"])
}

func TestCLIEmitter(t *testing.T) {
	for _, v := range []int{0, 1, 2} {
		e := NewCLIEmitter(v)

		// Should not panic
		e.EmitStage("platform", "web")
		e.EmitNode(&Entry{Node: "N.K", Platform: "web", Status: Succeeded, Depth: 2})
		e.EmitNode(&Entry{Node: "N.K", Platform: "web", Status: Failed, Err: errors.New("x")})
		e.EmitDiagnostic("disk full")
		e.EmitError("r1", errors.New("bundle missing"))
		e.EmitComplete(Summary{RunID: "r1", State: "completed", Translated: 3})
		e.EmitComplete(Summary{RunID: "r1", State: "failed", Failed: 1})
	}
}
