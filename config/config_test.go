package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
)

func sampleDocument() *Document {
	return &Document{
		Name:             "sample",
		Interest:         "All",
		Optimize:         false,
		OutputDirectory:  "out",
		ReturnPartial:    true,
		SourceAssembly:   "Sample.asm.yaml",
		NamesakeAssembly: "Namesake.asm.yaml",
		TargetPlatforms:  []string{"web", "win"},
		TargetTypes:      []string{"A.B", "X.Y.Box`1"},
		TranslatorPlugin: "plugins/ts.toml",
		UseDefaultOnly:   true,
		StrictResolution: true,
	}
}

// =============================================================================
// Round trips
// =============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml", ".yml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "xlat"+ext)

			want := sampleDocument()
			require.NoError(t, Save(want, path))

			got, err := Load(path)
			require.NoError(t, err)

			want.BaseDir = dir
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "min.toml")
	require.NoError(t, os.WriteFile(path, []byte("source-assembly = \"a.asm.yaml\"\n"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Errors", doc.Interest)
	assert.True(t, doc.Optimize)
	assert.Equal(t, []string{"*"}, doc.TargetPlatforms)
	assert.Empty(t, doc.TargetTypes)
	assert.Equal(t, filepath.Join(dir, "a.asm.yaml"), doc.SourcePath())
}

func TestLoadEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, Save(sampleDocument(), path))

	t.Setenv("XLAT_OUTPUT_DIRECTORY", "/tmp/elsewhere")
	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", doc.OutputDirectory)
	assert.Equal(t, "/tmp/elsewhere", doc.OutputPath())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("settings.ini")
	require.Error(t, err)
	assert.True(t, errors.IsDescriptorError(err))

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsDescriptorError(err))
}

// =============================================================================
// Validation and settings
// =============================================================================

func TestValidate(t *testing.T) {
	require.NoError(t, sampleDocument().Validate())

	doc := Default()
	doc.Interest = "Loud"
	doc.TargetPlatforms = []string{"web", "bad platform"}
	err := doc.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsDescriptorError(err))
	msg := err.Error()
	assert.Contains(t, msg, "source-assembly is required")
	assert.Contains(t, msg, "translator-plugin is required")
	assert.Contains(t, msg, "output-directory is required")
	assert.Contains(t, msg, "bad platform")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestSettings(t *testing.T) {
	doc := sampleDocument()
	doc.BaseDir = "/work"

	s, err := doc.Settings()
	require.NoError(t, err)
	assert.Equal(t, "sample", s.Name)
	assert.Equal(t, filepath.Join("/work", "out"), s.OutputDirectory)
	assert.Equal(t, engine.InterestAll, s.Interest)
	assert.Equal(t, []string{"web", "win"}, s.TargetPlatforms)
	assert.True(t, s.ReturnPartial)
	assert.True(t, s.StrictResolution)
	assert.False(t, s.Optimize)

	doc.Interest = "nope"
	_, err = doc.Settings()
	assert.True(t, errors.IsDescriptorError(err))
}

func TestResolvePath(t *testing.T) {
	doc := &Document{BaseDir: "/cfg"}
	assert.Equal(t, "", doc.ResolvePath(""))
	assert.Equal(t, "/abs/x", doc.ResolvePath("/abs/x"))
	assert.Equal(t, "/cfg/rel/x", doc.ResolvePath("rel/x"))
	assert.Equal(t, "/cfg/x", doc.ResolvePath("./sub/../x"))

	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, "x"), doc.ResolvePath("~/x"))
	}
}

// =============================================================================
// Watcher
// =============================================================================

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watch.toml")
	doc := sampleDocument()
	require.NoError(t, Save(doc, path))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()
	w.SetDebounce(20 * time.Millisecond)

	var name atomic.Value
	w.OnReload(func(d *Document) error {
		name.Store(d.Name)
		return nil
	})
	w.Start()

	doc.Name = "changed"
	require.NoError(t, Save(doc, path))

	require.Eventually(t, func() bool {
		v, _ := name.Load().(string)
		return v == "changed"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.json")
	require.NoError(t, Save(Default(), path))
	w, err := NewWatcher(path, "")
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
