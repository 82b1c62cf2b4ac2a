package markdown

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/sink"
)

func sampleBundle(t *testing.T) *model.Bundle {
	t.Helper()
	b, err := model.Open(filepath.Join("..", "..", "metadata", "testdata", "sample.asm.yaml"), metadata.NewDocumentReader())
	require.NoError(t, err)
	return b
}

func outline(t *testing.T, tr *Translator, b *model.Bundle, platforms ...string) *sink.Memory {
	t.Helper()
	s := engine.DefaultSettings()
	if len(platforms) > 0 {
		s.TargetPlatforms = platforms
	}
	require.NoError(t, tr.Configure(s))
	mem := sink.NewMemory()
	res, err := engine.New(tr, mem, s).TranslateBundle(context.Background(), b)
	require.NoError(t, err)
	require.Equal(t, 0, res.Failed, "failures: %v", res.Failures)
	return mem
}

// =============================================================================
// Outline
// =============================================================================

func TestOutline(t *testing.T) {
	mem := outline(t, New(), sampleBundle(t))

	doc, ok := mem.Content("Sample.md")
	require.True(t, ok, "files: %v", mem.Files())

	for _, want := range []string{
		"# Sample\n\nVersion 1.2.0.0, platform `*`\n",
		"- Sample.Core 1.0.0.0\n",
		"## A\n\n### class `BAll`\n\n*public sealed*\n\n",
		"- extends `Sample.Core.Entity`\n- implements `System.IDisposable`\n",
		"- field `count: System.Int32` *private*\n",
		"- method `Add(x: System.Int32, label: System.String): System.Boolean` *public*\n\n  ```il\n  IL_0000: ldarg.1\n",
		"  IL_0001: brfalse.s IL_0006\n",
		"  IL_0006: ldc.i4.0\n",
		"  ```\n\n",
		"- property `Count: System.Int32 { get; }`\n",
		"- event `Changed: System.EventHandler`\n",
		"#### struct `Inner`\n",
		"## X.Y\n\n### class `Box<T>`\n",
		"- field `value: T`\n",
	} {
		assert.Contains(t, doc, want)
	}
}

func TestOutlinePerPlatform(t *testing.T) {
	mem := outline(t, New(), sampleBundle(t), "web", "win")

	web, ok := mem.Content("web/Sample.md")
	require.True(t, ok)
	assert.Contains(t, web, "### class `BWeb`")
	assert.Contains(t, web, "platform `web`")

	win, ok := mem.Content("win/Sample.md")
	require.True(t, ok)
	assert.Contains(t, win, "### class `BAll`")
}

func TestOutlineWithoutIL(t *testing.T) {
	tr := New()
	tr.IncludeIL = false
	mem := outline(t, tr, sampleBundle(t))

	doc, _ := mem.Content("Sample.md")
	assert.NotContains(t, doc, "```il")
	assert.NotContains(t, doc, "ldarg.1")
}

func TestExceptionRegions(t *testing.T) {
	asm := &metadata.Assembly{
		Name: "Guarded",
		Types: []*metadata.TypeDef{{
			Namespace: "G",
			Name:      "Runner",
			Category:  metadata.CategoryClass,
			Methods: []*metadata.MethodDef{{
				Name: "Run",
				Body: &metadata.MethodBody{
					Instructions: []metadata.Instruction{
						{Offset: 0, OpCode: "nop"},
						{Offset: 1, OpCode: "leave.s", Operand: "IL_0006"},
						{Offset: 3, OpCode: "pop"},
						{Offset: 4, OpCode: "leave.s", Operand: "IL_0006"},
						{Offset: 6, OpCode: "ret"},
					},
					Handlers: []metadata.ExceptionHandler{{
						Kind:         metadata.HandlerCatch,
						TryStart:     0,
						TryEnd:       3,
						HandlerStart: 3,
						HandlerEnd:   6,
						CatchType:    &metadata.TypeRef{Namespace: "System", Name: "Exception"},
					}},
				},
			}},
		}},
	}
	metadata.Link(asm)

	mem := outline(t, New(), model.New(asm))
	doc, _ := mem.Content("Guarded.md")
	for _, want := range []string{
		"  .try {\n",
		"  } // end try\n",
		"  .catch System.Exception {\n",
		"  } // end catch\n",
		"  IL_0006: ret\n",
	} {
		assert.Contains(t, doc, want)
	}
}

func TestModule(t *testing.T) {
	m := Module()
	assert.Equal(t, []string{ClassName}, m.ClassNames())
}
