package symbols

import (
	"strings"

	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// TypeIndex answers whether a type name can be resolved from a bundle,
// either among its own kinds or in the assemblies it references. It
// satisfies annotation.TypeChecker.
type TypeIndex struct {
	bundle   *model.Bundle
	resolver *AssemblyResolver
	dotted   map[string]bool
	throwing bool

	unresolved map[string]error
}

// NewTypeIndex indexes bundle. resolver may be nil, in which case only
// the bundle's own kinds are known.
func NewTypeIndex(bundle *model.Bundle, resolver *AssemblyResolver, throwing bool) *TypeIndex {
	idx := &TypeIndex{
		bundle:   bundle,
		resolver: resolver,
		dotted:   make(map[string]bool),
		throwing: throwing,

		unresolved: make(map[string]error),
	}
	for _, k := range bundle.Kinds() {
		idx.dotted[k.DottedName()] = true
	}
	return idx
}

// HasType accepts static ('/'), reflection ('+') and dotted names.
func (idx *TypeIndex) HasType(fullName string) bool {
	static := strings.ReplaceAll(fullName, "+", metadata.NestedSeparator)
	if _, ok := idx.bundle.FindKind(static); ok {
		return true
	}
	if idx.dotted[fullName] {
		return true
	}
	if idx.resolver == nil {
		return false
	}
	for _, ref := range idx.bundle.Assembly.References {
		if _, failed := idx.unresolved[ref.Name]; failed {
			continue
		}
		asm, err := idx.resolver.Resolve(ref, idx.bundle.Path, idx.throwing)
		if err != nil {
			idx.unresolved[ref.Name] = err
			continue
		}
		if _, ok := asm.FindType(static); ok {
			return true
		}
	}
	return false
}

// Unresolved returns the reference failures met while answering, one per
// referenced assembly.
func (idx *TypeIndex) Unresolved() []error {
	out := make([]error, 0, len(idx.unresolved))
	for _, ref := range idx.bundle.Assembly.References {
		if err, ok := idx.unresolved[ref.Name]; ok {
			out = append(out, err)
		}
	}
	return out
}
