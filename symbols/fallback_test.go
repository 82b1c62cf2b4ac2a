package symbols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

func writeAssembly(t *testing.T, dir, name, ver string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := metadata.Encode(&metadata.Assembly{
		Name:    name,
		Version: ver,
		Types:   []*metadata.TypeDef{{Namespace: name, Name: "Thing", Category: metadata.CategoryClass}},
	})
	require.NoError(t, err)
	path := filepath.Join(dir, name+".asm.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolve_ManifestFallback(t *testing.T) {
	root := t.TempDir()
	module := writeAssembly(t, filepath.Join(root, "app"), "Main", "1.0.0.0")
	writeFile(t, module+ManifestSuffix, "# search paths\n\n../missing\n../libs\n")
	want := writeAssembly(t, filepath.Join(root, "libs"), "Dep", "1.3.0.0")

	r := NewAssemblyResolver(metadata.NewDocumentReader())
	asm, err := r.Resolve(metadata.AssemblyRef{Name: "Dep", Version: "1.2.0.0"}, module, false)
	require.NoError(t, err)
	assert.Equal(t, "Dep", asm.Name)
	assert.Equal(t, want, asm.Path)

	loaded, ok := r.Loaded("Dep")
	require.True(t, ok)
	assert.Same(t, asm, loaded)
}

func TestResolve_ModuleDirectoryFirst(t *testing.T) {
	root := t.TempDir()
	module := writeAssembly(t, filepath.Join(root, "app"), "Main", "1.0.0.0")
	local := writeAssembly(t, filepath.Join(root, "app"), "Dep", "1.0.0.0")
	writeAssembly(t, filepath.Join(root, "libs"), "Dep", "1.0.0.0")
	writeFile(t, module+ManifestSuffix, "../libs\n")

	r := NewAssemblyResolver(metadata.NewDocumentReader())
	asm, err := r.Resolve(metadata.AssemblyRef{Name: "Dep"}, module, false)
	require.NoError(t, err)
	assert.Equal(t, local, asm.Path)
}

func TestResolve_DefaultDirectories(t *testing.T) {
	root := t.TempDir()
	writeAssembly(t, filepath.Join(root, "defaults"), "Dep", "1.0.0.0")

	r := NewAssemblyResolver(metadata.NewDocumentReader(), WithSearchDirs(filepath.Join(root, "defaults")))
	asm, err := r.Resolve(metadata.AssemblyRef{Name: "Dep", Version: "1.0.0.0"}, "", false)
	require.NoError(t, err)
	assert.Equal(t, "Dep", asm.Name)
}

func TestResolve_RegisteredAssembly(t *testing.T) {
	r := NewAssemblyResolver(metadata.NewDocumentReader())
	dep := &metadata.Assembly{Name: "Dep", Version: "1.5.0.0"}
	r.Register(dep)

	asm, err := r.Resolve(metadata.AssemblyRef{Name: "Dep", Version: "1.0.0.0"}, "", false)
	require.NoError(t, err)
	assert.Same(t, dep, asm)
}

func TestResolve_Unresolved(t *testing.T) {
	root := t.TempDir()
	module := writeAssembly(t, filepath.Join(root, "app"), "Main", "1.0.0.0")
	writeAssembly(t, filepath.Join(root, "app"), "Dep", "2.0.0.0")

	r := NewAssemblyResolver(metadata.NewDocumentReader())
	_, err := r.Resolve(metadata.AssemblyRef{Name: "Dep", Version: "1.0.0.0"}, module, true)
	require.Error(t, err)
	assert.True(t, errors.IsResolutionError(err))

	var uerr *UnresolvedError
	require.True(t, errors.As(err, &uerr))
	assert.True(t, uerr.Throwing)
	assert.Equal(t, []string{filepath.Join(root, "app")}, uerr.Searched)
	assert.Contains(t, err.Error(), "Dep 1.0.0.0")
}

func TestFallbackDirs(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "Main.asm.yaml")
	writeFile(t, module+ManifestSuffix, "  libs  \n# comment\n\n/abs/dir\n")

	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core).Sugar()

	assert.Equal(t, []string{root, filepath.Join(root, "libs"), "/abs/dir"}, FallbackDirs(module, log))
	assert.Equal(t, []string{root}, FallbackDirs(filepath.Join(root, "Other.asm.yaml"), log))
	assert.Zero(t, logs.Len(), "a missing manifest is not reported")
}

func TestFallbackDirs_UnreadableManifest(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "Main.asm.yaml")
	// A directory opens fine but fails on read.
	require.NoError(t, os.MkdirAll(module+ManifestSuffix, 0o755))

	core, logs := observer.New(zap.DebugLevel)
	assert.Equal(t, []string{root}, FallbackDirs(module, zap.New(core).Sugar()))

	entries := logs.FilterMessage("search manifest unreadable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, module+ManifestSuffix, entries[0].ContextMap()[logger.FieldPath])
}

func TestTypeIndex(t *testing.T) {
	root := t.TempDir()
	writeAssembly(t, filepath.Join(root, "app"), "Dep", "1.0.0.0")
	asm := &metadata.Assembly{
		Name:       "Main",
		References: []metadata.AssemblyRef{{Name: "Dep"}, {Name: "Gone"}},
		Types: []*metadata.TypeDef{{
			Namespace:   "A",
			Name:        "B",
			NestedTypes: []*metadata.TypeDef{{Name: "Inner"}},
		}},
	}
	metadata.Link(asm)
	b := newBundleAt(asm, filepath.Join(root, "app", "Main.asm.yaml"))

	idx := NewTypeIndex(b, NewAssemblyResolver(metadata.NewDocumentReader()), false)
	assert.True(t, idx.HasType("A.B/Inner"))
	assert.True(t, idx.HasType("A.B+Inner"))
	assert.True(t, idx.HasType("A.B.Inner"))
	assert.True(t, idx.HasType("Dep.Thing"))
	assert.False(t, idx.HasType("Nope.Nothing"))

	unresolved := idx.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Contains(t, unresolved[0].Error(), "Gone")
}

func newBundleAt(asm *metadata.Assembly, path string) *model.Bundle {
	b := model.New(asm)
	b.Path = path
	return b
}
