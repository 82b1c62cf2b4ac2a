// Package translators bundles the translators shipped with xlat.
package translators

import (
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/plugin"
	"github.com/teranos/xlat/translators/markdown"
	"github.com/teranos/xlat/translators/typescript"
)

// Modules returns the built-in translator modules.
func Modules() []*plugin.Module {
	return []*plugin.Module{
		typescript.Module(),
		markdown.Module(),
	}
}

// Register adds the built-in modules to r. Modules already registered
// under the same name and version are left alone.
func Register(r *plugin.Registry) error {
	for _, m := range Modules() {
		if existing, ok := r.Get(m.Name); ok && existing.Version == m.Version {
			continue
		}
		if err := r.Register(m); err != nil {
			return errors.Wrapf(err, "failed to register %s", m.Name)
		}
	}
	return nil
}
