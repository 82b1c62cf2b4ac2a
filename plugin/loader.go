package plugin

import (
	"net/url"
	"os"
	"path/filepath"
	goplugin "plugin"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
)

// Symbols is an opened translator module.
type Symbols interface {
	Lookup(name string) (any, error)
}

// Opener opens a module file.
type Opener func(path string) (Symbols, error)

type goPlugin struct{ p *goplugin.Plugin }

func (g goPlugin) Lookup(name string) (any, error) {
	return g.p.Lookup(name)
}

// OpenGoPlugin opens a module built with -buildmode=plugin.
func OpenGoPlugin(path string) (Symbols, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return goPlugin{p: p}, nil
}

// Loaded is a configured translator ready for the engine.
type Loaded struct {
	Descriptor *Descriptor
	// ModulePath is the registry name for static modules or the
	// absolute file path otherwise.
	ModulePath string
	Static     bool
	Translator engine.Translator
}

// Loader resolves descriptors to configured translators.
type Loader struct {
	registry *Registry
	open     Opener
	logger   *zap.SugaredLogger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRegistry sets the static module registry.
func WithRegistry(r *Registry) LoaderOption {
	return func(l *Loader) { l.registry = r }
}

// WithOpener replaces the Go plugin opener.
func WithOpener(open Opener) LoaderOption {
	return func(l *Loader) { l.open = open }
}

// WithLoaderLogger sets the loader's logger.
func WithLoaderLogger(log *zap.SugaredLogger) LoaderOption {
	return func(l *Loader) { l.logger = log }
}

// NewLoader creates a loader over the default registry.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: DefaultRegistry(),
		open:     OpenGoPlugin,
		logger:   logger.ComponentLogger("loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the descriptor at path and returns its configured translator.
func (l *Loader) Load(path string, settings engine.Settings) (*Loaded, error) {
	d, err := ReadDescriptor(path)
	if err != nil {
		return nil, err
	}
	return l.LoadDescriptor(d, settings)
}

// LoadDescriptor instantiates the descriptor's class exactly once and
// configures it with settings.
func (l *Loader) LoadDescriptor(d *Descriptor, settings engine.Settings) (*Loaded, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	log := l.logger.With(logger.FieldPlugin, d.ClassName)

	mod, modulePath, static, err := l.openModule(d)
	if err != nil {
		return nil, err
	}

	sym, err := mod.Lookup(d.ClassName)
	if err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "type %s not found in %s", d.ClassName, modulePath), errors.ErrDescriptor),
			"class-name must name an exported translator constructor")
	}

	t, err := instantiate(sym)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to instantiate %s", d.ClassName), errors.ErrLoad)
	}
	if err := t.Configure(settings); err != nil {
		return nil, errors.WrapLoad(err, "failed to configure "+d.ClassName)
	}

	log.Infow("Translator loaded",
		logger.FieldPath, modulePath,
		"static", static,
		"display_name", d.Title(),
		"translator_version", d.TranslatorVersion)

	return &Loaded{Descriptor: d, ModulePath: modulePath, Static: static, Translator: t}, nil
}

func (l *Loader) openModule(d *Descriptor) (Symbols, string, bool, error) {
	if l.registry != nil {
		if m, ok := l.registry.Get(d.ModulePath); ok {
			return m, m.Name, true, nil
		}
	}

	path, err := expandModulePath(d.ModulePath, d.Dir)
	if err != nil {
		return nil, "", false, errors.Mark(errors.Wrapf(err, "module-path %s", d.ModulePath), errors.ErrDescriptor)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, "", false, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "translator module %s", path), errors.ErrDescriptor),
			"module-path is resolved relative to the descriptor file")
	}

	mod, err := l.open(path)
	if err != nil {
		return nil, "", false, errors.WrapLoad(err, "failed to open translator module "+path)
	}
	return mod, path, false, nil
}

// instantiate accepts a constructor symbol or a translator variable.
func instantiate(sym any) (t engine.Translator, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("constructor panicked: %v", r)
		}
	}()

	switch s := sym.(type) {
	case Factory:
		t = s()
	case func() engine.Translator:
		t = s()
	case *func() engine.Translator:
		t = (*s)()
	case func() (engine.Translator, error):
		if t, err = s(); err != nil {
			return nil, err
		}
	case engine.Translator:
		t = s
	default:
		return nil, errors.Newf("symbol of type %T is not a translator constructor", sym)
	}
	if t == nil {
		return nil, errors.New("constructor returned nil")
	}
	return t, nil
}

// expandModulePath expands ~ and resolves a local path against baseDir
// using go-getter detection. Only local and file:// paths are accepted.
func expandModulePath(path, baseDir string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	pwd := baseDir
	if pwd == "" {
		if wd, err := os.Getwd(); err == nil {
			pwd = wd
		} else {
			pwd = "."
		}
	}

	detected, err := getter.Detect(path, pwd, getter.Detectors)
	if err != nil {
		return "", errors.Wrap(err, "invalid path")
	}
	u, err := url.Parse(detected)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse path")
	}

	switch u.Scheme {
	case "file":
		return filepath.Clean(u.Path), nil
	case "":
		if filepath.IsAbs(path) {
			return filepath.Clean(path), nil
		}
		return filepath.Join(pwd, path), nil
	}
	return "", errors.Newf("unsupported path scheme: %s (expected file:// or local path)", u.Scheme)
}
