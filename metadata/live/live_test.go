package live

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/xlat/metadata"
)

func loadSample(t *testing.T) *Assembly {
	t.Helper()
	asm, err := metadata.NewDocumentReader().Read(filepath.Join("..", "testdata", "sample.asm.yaml"))
	require.NoError(t, err)
	return Load(asm)
}

func TestLoad_ReflectionNames(t *testing.T) {
	a := loadSample(t)

	inner, ok := a.GetType("A.B+Inner")
	require.True(t, ok)
	assert.Equal(t, "A", inner.Namespace)
	require.NotNil(t, inner.DeclaringType())
	assert.Equal(t, "A.B", inner.DeclaringType().FullName())

	box, ok := a.GetType("X.Y.Box`1")
	require.True(t, ok)
	assert.Equal(t, 1, box.GenericArity)
	assert.Equal(t, "A.B/Inner", StaticName("A.B+Inner"))
}

func TestLoad_DeclaredMembersInOrder(t *testing.T) {
	a := loadSample(t)
	b, ok := a.GetType("A.B")
	require.True(t, ok)

	var names []string
	for _, m := range b.DeclaredMembers() {
		names = append(names, m.Name+":"+m.Kind.String())
	}
	assert.Equal(t, []string{"count:field", "Add:method", "Count:property", "Changed:event"}, names)

	add := b.DeclaredMembers()[1]
	require.Len(t, add.Params, 2)
	assert.Equal(t, "Int32", add.Params[0].Type.Name)
	require.NotNil(t, add.ReturnType)
	assert.Equal(t, "Boolean", add.ReturnType.Name)
	assert.Same(t, b, add.DeclaringType())
}
