package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/xlat/errors"
)

func TestDocumentReader_Read(t *testing.T) {
	r := NewDocumentReader()
	asm, err := r.Read(filepath.Join("testdata", "sample.asm.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Sample", asm.Name)
	assert.Equal(t, "1.2.0.0", asm.Version)
	require.Len(t, asm.Types, 2)
	require.Len(t, asm.References, 1)

	b := asm.Types[0]
	assert.Equal(t, "A.B", b.FullName())
	require.Len(t, b.NestedTypes, 1)
	inner := b.NestedTypes[0]
	assert.Same(t, b, inner.DeclaringType)
	assert.Equal(t, "A.B/Inner", inner.FullName())
	assert.Equal(t, CategoryStruct, inner.Category)

	add := b.Methods[0]
	require.NotNil(t, add.Body)
	assert.Equal(t, 6, add.Body.Instructions[1].BranchTarget())
	assert.Equal(t, NoTarget, add.Body.Instructions[0].BranchTarget())

	found, ok := asm.FindType("A.B/Inner")
	require.True(t, ok)
	assert.Same(t, inner, found)
}

func TestDocumentReader_NameFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Widgets.asm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"types": [{"name": "W", "kind": "class"}]}`), 0644))

	asm, err := NewDocumentReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Widgets", asm.Name)
	assert.Equal(t, path, asm.Path)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "name: X\nbogus: 1\n"},
		{name: "unknown kind", doc: "types:\n  - name: T\n    kind: module\n"},
		{name: "missing type name", doc: "types:\n  - kind: class\n"},
		{
			name: "branch to missing offset",
			doc: `types:
  - name: T
    methods:
      - name: M
        body:
          instructions:
            - {offset: 0, opcode: br, operand: IL_0010}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrBundle))
		})
	}
}

func TestDecode_DefaultsCategory(t *testing.T) {
	asm, err := Decode([]byte("types:\n  - name: T\n"))
	require.NoError(t, err)
	assert.Equal(t, CategoryClass, asm.Types[0].Category)
}

func TestEncodeDecodeKeepsShape(t *testing.T) {
	asm, err := NewDocumentReader().Read(filepath.Join("testdata", "sample.asm.yaml"))
	require.NoError(t, err)

	data, err := Encode(asm)
	require.NoError(t, err)

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, asm.Types[0].FullName(), again.Types[0].FullName())
	assert.Equal(t, asm.Types[0].NestedTypes[0].FullName(), again.Types[0].NestedTypes[0].FullName())
	assert.Equal(t, asm.Types[0].Methods[0].Body.Instructions, again.Types[0].Methods[0].Body.Instructions)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "IL_001a", Label(0x1a))
	off, ok := ParseLabel("IL_001a")
	require.True(t, ok)
	assert.Equal(t, 0x1a, off)
	_, ok = ParseLabel("L1")
	assert.False(t, ok)
}

func TestTypeRefFullName(t *testing.T) {
	assert.Equal(t, "A.B/Inner", TypeRef{Namespace: "A", DeclaringType: "B", Name: "Inner"}.FullName())
	assert.Equal(t, "T", TypeRef{Namespace: "A", Name: "T", GenericParameter: true}.FullName())
	assert.Equal(t, "Box", StripArity("Box`1"))
	assert.Equal(t, "*", Directive{Kind: "hide"}.PlatformPattern())
}
