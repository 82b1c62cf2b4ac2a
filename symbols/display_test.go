package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

func displayBundle(t *testing.T) *model.Bundle {
	t.Helper()
	asm := &metadata.Assembly{
		Name: "Display",
		Types: []*metadata.TypeDef{
			{
				Namespace: "A",
				Name:      "B",
				NestedTypes: []*metadata.TypeDef{{
					Name:        "Inner",
					NestedTypes: []*metadata.TypeDef{{Name: "Deep"}},
				}},
			},
			{Namespace: "X", Name: "Y"},
			{
				Namespace:     "G",
				Name:          "List`1",
				GenericParams: []*metadata.GenericParam{{Name: "T"}},
			},
		},
	}
	metadata.Link(asm)
	return model.New(asm)
}

func find(t *testing.T, b *model.Bundle, name string) *model.Kind {
	t.Helper()
	k, ok := b.FindKind(name)
	require.True(t, ok, name)
	return k
}

func TestDisplayName(t *testing.T) {
	b := displayBundle(t)
	ab := find(t, b, "A.B")
	inner := find(t, b, "A.B/Inner")
	deep := find(t, b, "A.B/Inner/Deep")
	xy := find(t, b, "X.Y")
	list := find(t, b, "G.List`1")

	tests := []struct {
		name           string
		target, caller *model.Kind
		want           string
	}{
		{"nested in caller", inner, ab, "Inner"},
		{"unrelated caller", inner, xy, "A.B.Inner"},
		{"deeply nested", deep, ab, "Deep"},
		{"caller itself", ab, ab, "B"},
		{"enclosing type from nested caller", ab, inner, "A.B"},
		{"no caller", inner, nil, "A.B.Inner"},
		{"generic arity dropped", list, xy, "G.List"},
		{"own generic type", list, list, "List"},
		{"placeholder", list.GenericParameters[0], xy, "T"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.target, tt.caller))
		})
	}
}

func TestDisplayTypeRef(t *testing.T) {
	b := displayBundle(t)
	ab := find(t, b, "A.B")
	xy := find(t, b, "X.Y")

	innerRef := metadata.TypeRef{Namespace: "A", DeclaringType: "B", Name: "Inner"}
	assert.Equal(t, "Inner", DisplayTypeRef(innerRef, ab))
	assert.Equal(t, "A.B.Inner", DisplayTypeRef(innerRef, xy))

	external := metadata.TypeRef{Namespace: "System.Collections", Name: "Dictionary`2", Arguments: []metadata.TypeRef{
		{Namespace: "System", Name: "String"},
		innerRef,
	}}
	assert.Equal(t, "System.Collections.Dictionary<System.String, Inner>", DisplayTypeRef(external, ab))

	arr := metadata.TypeRef{Name: "T", GenericParameter: true, Array: true}
	assert.Equal(t, "T[]", DisplayTypeRef(arr, xy))
}

func TestDottedRef(t *testing.T) {
	assert.Equal(t, "A.Outer.Mid.Leaf", DottedRef(metadata.TypeRef{Namespace: "A", DeclaringType: "Outer`1/Mid", Name: "Leaf"}))
	assert.Equal(t, "Leaf", DottedRef(metadata.TypeRef{Name: "Leaf"}))
}
