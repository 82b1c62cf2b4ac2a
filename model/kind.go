package model

import (
	"strings"

	"github.com/teranos/xlat/metadata"
)

// Kind is a class, interface, struct, enum or delegate, or a generic
// parameter placeholder standing in for a type argument.
type Kind struct {
	// Def is the raw type definition; nil for placeholders.
	Def *metadata.TypeDef
	// Param is the raw generic parameter; set for placeholders only.
	Param *metadata.GenericParam

	IsPlaceHolderGenericParameter bool

	Fields            []*Field
	Methods           []*Method
	Properties        []*Property
	Events            []*Event
	Nested            []*Kind
	GenericParameters []*Kind

	pkg       *Package
	enclosing *Kind
	owner     Node
}

func newKind(td *metadata.TypeDef, pkg *Package, enclosing *Kind, b *Bundle) *Kind {
	k := &Kind{Def: td, pkg: pkg, enclosing: enclosing}
	for _, gp := range td.GenericParams {
		k.GenericParameters = append(k.GenericParameters, newPlaceholder(gp, k, pkg))
	}
	for _, f := range td.Fields {
		k.Fields = append(k.Fields, &Field{Def: f, owner: k})
	}
	for _, m := range td.Methods {
		k.Methods = append(k.Methods, newMethod(m, k))
	}
	for _, p := range td.Properties {
		k.Properties = append(k.Properties, &Property{Def: p, owner: k})
	}
	for _, e := range td.Events {
		k.Events = append(k.Events, &Event{Def: e, owner: k})
	}
	b.index(k)
	for _, n := range td.NestedTypes {
		k.Nested = append(k.Nested, newKind(n, pkg, k, b))
	}
	return k
}

func newPlaceholder(gp *metadata.GenericParam, owner Node, pkg *Package) *Kind {
	return &Kind{
		Param:                         gp,
		IsPlaceHolderGenericParameter: true,
		pkg:                           pkg,
		owner:                         owner,
	}
}

func (k *Kind) NodeKind() NodeKind { return KindNode }

// Name returns the raw type name, or the parameter name for placeholders.
func (k *Kind) Name() string {
	if k.IsPlaceHolderGenericParameter {
		return k.Param.Name
	}
	return k.Def.Name
}

// FullName returns the static full name. Placeholders are qualified by
// their owner: "A.B!T".
func (k *Kind) FullName() string {
	if k.IsPlaceHolderGenericParameter {
		return k.owner.FullName() + "!" + k.Param.Name
	}
	return k.Def.FullName()
}

// DottedName returns the full name with '.' between nested types and the
// generic arity suffix removed: "A.B.Inner".
func (k *Kind) DottedName() string {
	if k.IsPlaceHolderGenericParameter {
		return k.Param.Name
	}
	if k.enclosing != nil {
		return k.enclosing.DottedName() + "." + metadata.StripArity(k.Def.Name)
	}
	name := metadata.StripArity(k.Def.Name)
	if ns := k.Namespace(); ns != "" {
		return ns + "." + name
	}
	return name
}

// ShortName returns the simple name without generic arity.
func (k *Kind) ShortName() string {
	return metadata.StripArity(k.Name())
}

func (k *Kind) Directives() []metadata.Directive {
	if k.IsPlaceHolderGenericParameter {
		return k.Param.Directives
	}
	return k.Def.Directives
}

// Parent returns the enclosing Kind, the owner of a placeholder, or the package.
func (k *Kind) Parent() Node {
	switch {
	case k.owner != nil:
		return k.owner
	case k.enclosing != nil:
		return k.enclosing
	default:
		return k.pkg
	}
}

// Package returns the package the kind belongs to.
func (k *Kind) Package() *Package {
	return k.pkg
}

// Namespace returns the namespace of the outermost declaring type.
func (k *Kind) Namespace() string {
	if k.pkg == nil {
		return ""
	}
	return k.pkg.Namespace
}

// Enclosing returns the declaring Kind of a nested kind.
func (k *Kind) Enclosing() *Kind {
	return k.enclosing
}

// Owner returns the Kind or Method declaring a placeholder.
func (k *Kind) Owner() Node {
	return k.owner
}

// Category returns the declared category; placeholders report "".
func (k *Kind) Category() metadata.TypeCategory {
	if k.IsPlaceHolderGenericParameter {
		return ""
	}
	return k.Def.Category
}

// BaseType returns the raw base type reference, if any.
func (k *Kind) BaseType() *metadata.TypeRef {
	if k.IsPlaceHolderGenericParameter {
		return k.Param.Extends
	}
	return k.Def.BaseType
}

// Interfaces returns the raw implemented interfaces.
func (k *Kind) Interfaces() []metadata.TypeRef {
	if k.IsPlaceHolderGenericParameter {
		return k.Param.Implements
	}
	return k.Def.Interfaces
}

// GenericArity returns the number of generic parameters.
func (k *Kind) GenericArity() int {
	return len(k.GenericParameters)
}

// Ref returns a metadata reference to the kind.
func (k *Kind) Ref() metadata.TypeRef {
	if k.IsPlaceHolderGenericParameter {
		return metadata.TypeRef{Name: k.Param.Name, GenericParameter: true}
	}
	asm := ""
	if k.pkg != nil && k.pkg.bundle != nil {
		asm = k.pkg.bundle.Assembly.Name
	}
	return k.Def.Ref(asm)
}

// Is reports whether k and other denote the same underlying type.
func (k *Kind) Is(other *Kind) bool {
	if k == nil || other == nil {
		return false
	}
	return k == other || k.FullName() == other.FullName()
}

// IsNestedIn reports whether k is declared, at any depth, inside outer.
func (k *Kind) IsNestedIn(outer *Kind) bool {
	if outer == nil || outer.IsPlaceHolderGenericParameter {
		return false
	}
	prefix := outer.FullName() + metadata.NestedSeparator
	return strings.HasPrefix(k.FullName(), prefix)
}

// Members returns fields, methods, properties and events in walk order.
func (k *Kind) Members() []Member {
	out := make([]Member, 0, len(k.Fields)+len(k.Methods)+len(k.Properties)+len(k.Events))
	for _, f := range k.Fields {
		out = append(out, f)
	}
	for _, m := range k.Methods {
		out = append(out, m)
	}
	for _, p := range k.Properties {
		out = append(out, p)
	}
	for _, e := range k.Events {
		out = append(out, e)
	}
	return out
}
