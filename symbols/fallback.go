package symbols

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/version"
)

// ManifestSuffix names the search-path manifest kept next to a module:
// "Sample.asm.yaml" is accompanied by "Sample.asm.yaml.paths".
const ManifestSuffix = ".paths"

// UnresolvedError reports a reference that no search location satisfied.
type UnresolvedError struct {
	Ref      metadata.AssemblyRef
	Searched []string
	// Throwing records whether the caller asked for a fatal failure.
	Throwing bool
}

func (e *UnresolvedError) Error() string {
	ref := e.Ref.Name
	if e.Ref.Version != "" {
		ref += " " + e.Ref.Version
	}
	return fmt.Sprintf("unresolved assembly %s (searched %s)", ref, strings.Join(e.Searched, ", "))
}

func (e *UnresolvedError) Unwrap() error {
	return errors.ErrResolution
}

// AssemblyResolver locates referenced assemblies. Default resolution looks
// at already loaded assemblies and the configured directories; the fallback
// searches next to the referencing module and the directories its manifest lists.
type AssemblyResolver struct {
	reader metadata.Reader
	dirs   []string
	logger *zap.SugaredLogger

	mu     sync.Mutex
	loaded map[string]*metadata.Assembly
}

// ResolverOption configures an AssemblyResolver.
type ResolverOption func(*AssemblyResolver)

// WithSearchDirs sets the default resolution directories.
func WithSearchDirs(dirs ...string) ResolverOption {
	return func(r *AssemblyResolver) { r.dirs = append(r.dirs, dirs...) }
}

// WithResolverLogger injects a logger.
func WithResolverLogger(l *zap.SugaredLogger) ResolverOption {
	return func(r *AssemblyResolver) { r.logger = l }
}

// NewAssemblyResolver creates a resolver reading candidates with reader.
func NewAssemblyResolver(reader metadata.Reader, opts ...ResolverOption) *AssemblyResolver {
	r := &AssemblyResolver{
		reader: reader,
		loaded: make(map[string]*metadata.Assembly),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.ComponentLogger("symbols")
	}
	return r
}

// Register makes an already loaded assembly available to default resolution.
func (r *AssemblyResolver) Register(asm *metadata.Assembly) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[asm.Name] = asm
}

// Loaded returns the registered assembly with the given name.
func (r *AssemblyResolver) Loaded(name string) (*metadata.Assembly, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asm, ok := r.loaded[name]
	return asm, ok
}

// Resolve finds the assembly satisfying ref. referencingModule is the path
// of the module holding the reference. On failure the returned
// *UnresolvedError carries throwing so the caller can decide whether to abort.
func (r *AssemblyResolver) Resolve(ref metadata.AssemblyRef, referencingModule string, throwing bool) (*metadata.Assembly, error) {
	if asm, ok := r.Loaded(ref.Name); ok && version.Satisfies(asm.Version, ref.Version) {
		return asm, nil
	}

	var searched []string
	try := func(dirs []string) *metadata.Assembly {
		for _, dir := range dirs {
			searched = append(searched, dir)
			if asm := r.probe(dir, ref); asm != nil {
				return asm
			}
		}
		return nil
	}

	asm := try(r.dirs)
	if asm == nil && referencingModule != "" {
		asm = try(FallbackDirs(referencingModule, r.logger))
	}
	if asm == nil {
		r.logger.Debugw("assembly reference unresolved",
			logger.FieldReference, ref.Name,
			logger.FieldCount, len(searched))
		return nil, &UnresolvedError{Ref: ref, Searched: searched, Throwing: throwing}
	}

	r.Register(asm)
	r.logger.Debugw("assembly reference resolved",
		logger.FieldReference, ref.Name,
		logger.FieldPath, asm.Path)
	return asm, nil
}

// probe reads the candidate files for ref in dir.
func (r *AssemblyResolver) probe(dir string, ref metadata.AssemblyRef) *metadata.Assembly {
	for _, ext := range r.reader.Extensions() {
		path := filepath.Join(dir, ref.Name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		asm, err := r.reader.Read(path)
		if err != nil {
			r.logger.Debugw("candidate assembly unreadable", logger.FieldPath, path, logger.FieldError, err)
			continue
		}
		if asm.Name != ref.Name || !version.Satisfies(asm.Version, ref.Version) {
			continue
		}
		return asm
	}
	return nil
}

// FallbackDirs returns the fallback search order for a module: its own
// directory, then the manifest entries resolved against that directory.
// An unreadable manifest is logged and treated as absent.
func FallbackDirs(modulePath string, log *zap.SugaredLogger) []string {
	base := filepath.Dir(modulePath)
	dirs := []string{base}
	manifest := modulePath + ManifestSuffix
	entries, err := ReadManifest(manifest)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			if log == nil {
				log = logger.ComponentLogger("symbols")
			}
			log.Debugw("search manifest unreadable", logger.FieldPath, manifest, logger.FieldError, err)
		}
		return dirs
	}
	for _, e := range entries {
		if !filepath.IsAbs(e) {
			e = filepath.Join(base, e)
		}
		dirs = append(dirs, filepath.Clean(e))
	}
	return dirs
}

// ReadManifest reads one directory per line. Blank lines and lines
// starting with '#' are skipped.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	return out, nil
}
