package model

import (
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/metadata"
)

// Bundle is the whole assembly under translation.
type Bundle struct {
	Path         string
	NamesakePath string
	Assembly     *metadata.Assembly
	Namesake     *metadata.Assembly

	packages []*Package
	byNS     map[string]*Package
	byName   map[string]*Kind
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	namesakePath string
}

// WithNamesake names a second assembly searched for namesake directives.
func WithNamesake(path string) Option {
	return func(o *openOptions) {
		o.namesakePath = path
	}
}

// Open reads the assembly at path and builds its object model.
func Open(path string, reader metadata.Reader, opts ...Option) (*Bundle, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	asm, err := reader.Read(path)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrBundle), "failed to open bundle %s", path)
	}
	b := New(asm)
	b.Path = path

	if o.namesakePath != "" {
		ns, err := reader.Read(o.namesakePath)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, errors.ErrBundle), "failed to open namesake assembly %s", o.namesakePath)
		}
		b.Namesake = ns
		b.NamesakePath = o.namesakePath
	}
	return b, nil
}

// New builds the object model of an already read assembly.
func New(asm *metadata.Assembly) *Bundle {
	b := &Bundle{
		Path:     asm.Path,
		Assembly: asm,
		byNS:     make(map[string]*Package),
		byName:   make(map[string]*Kind),
	}
	for _, td := range asm.Types {
		pkg := b.packageFor(td.Namespace)
		k := newKind(td, pkg, nil, b)
		pkg.kinds = append(pkg.kinds, k)
	}
	return b
}

func (b *Bundle) packageFor(ns string) *Package {
	if p, ok := b.byNS[ns]; ok {
		return p
	}
	p := &Package{Namespace: ns, bundle: b}
	b.byNS[ns] = p
	b.packages = append(b.packages, p)
	return p
}

func (b *Bundle) index(k *Kind) {
	b.byName[k.FullName()] = k
}

func (b *Bundle) NodeKind() NodeKind { return BundleNode }
func (b *Bundle) Name() string { return b.Assembly.Name }
func (b *Bundle) FullName() string { return b.Assembly.Name }
func (b *Bundle) Directives() []metadata.Directive { return b.Assembly.Directives }
func (b *Bundle) Parent() Node { return nil }

// Packages returns the packages in discovery order.
func (b *Bundle) Packages() []*Package {
	return b.packages
}

// Package returns the package for a namespace.
func (b *Bundle) Package(namespace string) (*Package, bool) {
	p, ok := b.byNS[namespace]
	return p, ok
}

// FindKind looks a Kind up by static full name (nested types use '/').
func (b *Bundle) FindKind(fullName string) (*Kind, bool) {
	k, ok := b.byName[fullName]
	return k, ok
}

// Kinds returns every declared Kind depth-first in declaration order.
// Generic placeholders are not included.
func (b *Bundle) Kinds() []*Kind {
	var out []*Kind
	var visit func(*Kind)
	visit = func(k *Kind) {
		out = append(out, k)
		for _, n := range k.Nested {
			visit(n)
		}
	}
	for _, p := range b.packages {
		for _, k := range p.kinds {
			visit(k)
		}
	}
	return out
}

// Package is a namespace grouping.
type Package struct {
	Namespace string

	bundle *Bundle
	kinds  []*Kind
}

func (p *Package) NodeKind() NodeKind { return PackageNode }
func (p *Package) Name() string { return p.Namespace }
func (p *Package) FullName() string { return p.Namespace }
func (p *Package) Directives() []metadata.Directive { return nil }
func (p *Package) Parent() Node { return p.bundle }

// Bundle returns the owning bundle.
func (p *Package) Bundle() *Bundle {
	return p.bundle
}

// Kinds returns the top-level kinds of the package in declaration order.
func (p *Package) Kinds() []*Kind {
	return p.kinds
}
