package annotation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// =============================================================================
// Test helpers
// =============================================================================

func dir(kind, value, platform string) metadata.Directive {
	return metadata.Directive{Kind: kind, Value: value, Platform: platform}
}

func kindWith(t *testing.T, dirs ...metadata.Directive) *model.Kind {
	t.Helper()
	asm := &metadata.Assembly{
		Name: "Fixture",
		Types: []*metadata.TypeDef{{
			Namespace:  "A",
			Name:       "B",
			Category:   metadata.CategoryClass,
			Access:     "public",
			Modifiers:  []string{"sealed"},
			BaseType:   &metadata.TypeRef{Namespace: "System", Name: "Object"},
			Directives: dirs,
			Fields: []*metadata.FieldDef{
				{Name: "f", Type: metadata.TypeRef{Namespace: "System", Name: "Int32"}},
			},
		}},
	}
	metadata.Link(asm)
	k, ok := model.New(asm).FindKind("A.B")
	require.True(t, ok)
	return k
}

func newResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	return NewResolver(opts...)
}

// =============================================================================
// Selection
// =============================================================================

func TestSelect_ExactOverWildcard(t *testing.T) {
	dirs := []metadata.Directive{
		dir(KindName, "A", "*"),
		dir(KindName, "B", "win"),
	}

	v, ok := First(dirs, KindName, "win")
	require.True(t, ok)
	assert.Equal(t, "B", v)

	v, ok = First(dirs, KindName, "mac")
	require.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = First(dirs, KindAccess, "win")
	assert.False(t, ok)
}

func TestSelect_EmptyPlatformIsWildcard(t *testing.T) {
	dirs := []metadata.Directive{dir(KindImport, "x", "")}
	assert.Equal(t, []string{"x"}, Values(dirs, KindImport, "linux"))
	assert.Equal(t, []string{"x"}, Values(dirs, KindImport, ""))
}

func TestSelect_PlatformIsCaseInsensitive(t *testing.T) {
	dirs := []metadata.Directive{dir(KindName, "W", "win")}
	assert.Equal(t, []string{"W"}, Values(dirs, KindName, "WIN"))
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name     string
		dirs     []metadata.Directive
		platform string
		want     bool
	}{
		{"no directives", nil, "win", true},
		{"wildcard hide", []metadata.Directive{dir(KindHide, "", "*")}, "win", false},
		{"wildcard hide on mac", []metadata.Directive{dir(KindHide, "", "*")}, "mac", false},
		{"exact show beats wildcard hide", []metadata.Directive{dir(KindHide, "", "*"), dir(KindShow, "", "win")}, "win", true},
		{"exact show elsewhere", []metadata.Directive{dir(KindHide, "", "*"), dir(KindShow, "", "win")}, "mac", false},
		{"equal specificity stays hidden", []metadata.Directive{dir(KindHide, "", "win"), dir(KindShow, "", "win")}, "win", false},
		{"exact hide beats wildcard show", []metadata.Directive{dir(KindShow, "", "*"), dir(KindHide, "", "win")}, "win", false},
		{"hide for other platform", []metadata.Directive{dir(KindHide, "", "win")}, "mac", true},
		{"show alone", []metadata.Directive{dir(KindShow, "", "*")}, "win", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.dirs, tt.platform))
		})
	}
}

func TestSpecificity(t *testing.T) {
	assert.Equal(t, 2, Specificity(dir(KindHide, "", "win"), "win"))
	assert.Equal(t, 1, Specificity(dir(KindHide, "", "*"), "win"))
	assert.Equal(t, 1, Specificity(dir(KindHide, "", "*"), "*"))
	assert.Equal(t, 0, Specificity(dir(KindHide, "", "mac"), "win"))
}

// =============================================================================
// Resolver
// =============================================================================

func TestResolve_RawDefinition(t *testing.T) {
	k := kindWith(t)
	r := newResolver(t)

	def, err := r.Resolve(k, "win")
	require.NoError(t, err)
	assert.Equal(t, "B", def.Name)
	assert.Equal(t, "public", def.Access)
	assert.Equal(t, []string{"sealed"}, def.Modifiers)
	assert.Equal(t, "System.Object", def.BaseType)
	assert.True(t, def.Visible)
	assert.Equal(t, "win", def.Platform)
}

func TestResolve_TieBreak(t *testing.T) {
	k := kindWith(t, dir(KindName, "A", "*"), dir(KindName, "B", "win"))
	r := newResolver(t)

	assert.Equal(t, "B", r.EffectiveName(k, "win"))
	assert.Equal(t, "A", r.EffectiveName(k, "mac"))
}

func TestResolve_Memoized(t *testing.T) {
	k := kindWith(t, dir(KindName, "Renamed", "*"))
	r := newResolver(t)

	first, err := r.Resolve(k, "win")
	require.NoError(t, err)
	second, err := r.Resolve(k, "win")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, _ := r.Resolve(k, "mac")
	assert.NotSame(t, first, other)
	assert.Equal(t, first.Name, other.Name)

	r.Reset()
	third, _ := r.Resolve(k, "win")
	assert.NotSame(t, first, third)
	assert.Equal(t, first, third)
}

func TestResolve_DefaultOnlyIgnoresDirectives(t *testing.T) {
	k := kindWith(t, dir(KindName, "Renamed", "*"), dir(KindHide, "", "*"), dir("bogus", "x", "*"))
	r := newResolver(t, WithDefaultOnly(true))

	def, err := r.Resolve(k, "win")
	require.NoError(t, err)
	assert.Equal(t, "B", def.Name)
	assert.True(t, def.Visible)
	assert.True(t, r.DefaultOnly())
}

func TestResolve_MultiValuedInDeclarationOrder(t *testing.T) {
	k := kindWith(t,
		dir(KindCode, "one();", "*"),
		dir(KindCode, "win();", "win"),
		dir(KindCode, "two();", "*"),
		dir(KindModifier, "static", "*"),
		dir(KindModifier, "sealed", "*"),
		dir(KindImport, "./a", "*"),
		dir(KindImport, "./b", "*"),
	)
	r := newResolver(t)

	def, err := r.Resolve(k, "mac")
	require.NoError(t, err)
	assert.Equal(t, "one();\ntwo();", def.Code)
	assert.Equal(t, []string{"sealed", "static"}, def.Modifiers)
	assert.Equal(t, []string{"./a", "./b"}, def.Imports)

	def, err = r.Resolve(k, "win")
	require.NoError(t, err)
	assert.Equal(t, "win();", def.Code)
}

func TestResolve_MalformedDirectives(t *testing.T) {
	k := kindWith(t,
		dir("bogus", "x", "*"),
		dir(KindName, "", "*"),
		dir(KindAccess, "internal", "Win 10"),
		dir(KindName, "Good", "*"),
	)
	r := newResolver(t)

	def, err := r.Resolve(k, "win")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrResolution))

	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Len(t, rerr.Problems, 3)
	assert.Same(t, k, rerr.Node)
	assert.Contains(t, err.Error(), "A.B")

	require.NotNil(t, def)
	assert.Equal(t, "Good", def.Name)
	assert.Equal(t, "public", def.Access)

	// Siblings resolve independently.
	fdef, ferr := r.Resolve(k.Fields[0], "win")
	require.NoError(t, ferr)
	assert.Equal(t, "f", fdef.Name)
}

func TestResolve_TypeChecker(t *testing.T) {
	k := kindWith(t,
		dir(KindBase, "Missing.Base", "*"),
		dir(KindImplements, "Known.IFace", "*"),
		dir(KindImplements, "Missing.IFace", "*"),
	)
	known := TypeCheckerFunc(func(name string) bool { return name == "Known.IFace" })
	r := newResolver(t, WithTypeChecker(known))

	def, err := r.Resolve(k, "win")
	require.Error(t, err)
	assert.True(t, errors.IsResolutionError(err))
	assert.Equal(t, "System.Object", def.BaseType)
	assert.Equal(t, []string{"Known.IFace"}, def.Interfaces)
}

type namesakeStub map[string][]metadata.Directive

func (s namesakeStub) NamesakeDirectives(node model.Node) []metadata.Directive {
	return s[node.FullName()]
}

func TestResolve_NamesakeDirectivesFollowOwn(t *testing.T) {
	k := kindWith(t, dir(KindCode, "own();", "*"))
	r := newResolver(t, WithNamesakes(namesakeStub{
		"A.B": {dir(KindCode, "namesake();", "*"), dir(KindName, "FromNamesake", "*")},
	}))

	def, err := r.Resolve(k, "win")
	require.NoError(t, err)
	assert.Equal(t, "own();\nnamesake();", def.Code)
	assert.Equal(t, "FromNamesake", def.Name)
}

func TestResolve_GenericConstraints(t *testing.T) {
	asm := &metadata.Assembly{
		Name: "Generic",
		Types: []*metadata.TypeDef{{
			Namespace: "G",
			Name:      "Box`1",
			GenericParams: []*metadata.GenericParam{{
				Name:       "T",
				Implements: []metadata.TypeRef{{Namespace: "System", Name: "IComparable"}},
				Directives: []metadata.Directive{
					dir(KindExtends, "G.Base", "*"),
					dir(KindImplements, "G.IWin", "win"),
					dir("bogus", "", "*"),
				},
			}},
		}},
	}
	metadata.Link(asm)
	k, ok := model.New(asm).FindKind("G.Box`1")
	require.True(t, ok)
	r := newResolver(t)

	def, err := r.Resolve(k, "mac")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "T: unknown directive kind")
	assert.Equal(t, "Box", def.Name)
	require.Len(t, def.Constraints, 1)
	assert.Equal(t, Constraint{
		Parameter:     "T",
		MustExtend:    []string{"G.Base"},
		MustImplement: []string{"System.IComparable"},
	}, def.Constraints[0])

	def, _ = r.Resolve(k, "win")
	assert.Equal(t, []string{"System.IComparable", "G.IWin"}, def.Constraints[0].MustImplement)
}

func TestResolve_MemoKeepsEveryDefinition(t *testing.T) {
	const n = 10000
	td := &metadata.TypeDef{Namespace: "A", Name: "Wide", Category: metadata.CategoryClass}
	for i := 0; i < n; i++ {
		td.Fields = append(td.Fields, &metadata.FieldDef{
			Name: fmt.Sprintf("f%d", i),
			Type: metadata.TypeRef{Namespace: "System", Name: "Int32"},
		})
	}
	asm := &metadata.Assembly{Name: "Fixture", Types: []*metadata.TypeDef{td}}
	metadata.Link(asm)
	k, ok := model.New(asm).FindKind("A.Wide")
	require.True(t, ok)

	r := newResolver(t)
	members := k.Members()
	require.Len(t, members, n)
	first := make([]*Definition, n)
	for i, m := range members {
		first[i], _ = r.Resolve(m, "win")
	}
	for i, m := range members {
		def, _ := r.Resolve(m, "win")
		assert.Same(t, first[i], def)
	}
}
