package plugin

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/version"
)

// Factory creates a translator instance.
type Factory func() engine.Translator

// Module is a translator module linked into the binary.
type Module struct {
	// Name is matched against a descriptor's module-path.
	Name string

	// Version is the module version (semver)
	Version string

	// XlatVersion is the required translator API version (semver constraint)
	XlatVersion string

	Description string

	// Classes maps class names to factories.
	Classes map[string]Factory
}

// Lookup returns the factory registered for class.
func (m *Module) Lookup(class string) (any, error) {
	f, ok := m.Classes[class]
	if !ok {
		return nil, errors.NewNotFoundError("class %s not found in module %s", class, m.Name)
	}
	return f, nil
}

// ClassNames returns the module's class names in sorted order.
func (m *Module) ClassNames() []string {
	names := make([]string, 0, len(m.Classes))
	for name := range m.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry holds the static translator modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
	version string
}

// NewRegistry creates a registry validating modules against apiVersion.
func NewRegistry(apiVersion string) *Registry {
	return &Registry{
		modules: make(map[string]*Module),
		version: apiVersion,
	}
}

// Register adds a module. It fails on a name conflict or an
// incompatible API version.
func (r *Registry) Register(m *Module) error {
	if m == nil || m.Name == "" {
		return errors.New("module name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[m.Name]; exists {
		return errors.Newf("translator module already registered: %s", m.Name)
	}
	if err := r.validateVersion(m); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", m.Name)
	}

	r.modules[m.Name] = m
	return nil
}

// Get retrieves a module by name.
func (r *Registry) Get(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// List returns the registered module names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) validateVersion(m *Module) error {
	if m.XlatVersion == "" {
		return nil
	}

	have, err := semver.NewVersion(r.version)
	if err != nil {
		return errors.Wrapf(err, "invalid API version %s", r.version)
	}
	constraint, err := semver.NewConstraint(m.XlatVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", m.XlatVersion)
	}
	if !constraint.Check(have) {
		return errors.Newf("module requires xlat API %s, but running %s", m.XlatVersion, r.version)
	}
	return nil
}

var (
	defaultRegistry *Registry
	registryOnce    sync.Once
)

// DefaultRegistry returns the process-wide registry for the current API version.
func DefaultRegistry() *Registry {
	registryOnce.Do(func() {
		defaultRegistry = NewRegistry(version.APIVersion)
	})
	return defaultRegistry
}
