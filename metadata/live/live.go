// Package live exposes a loaded assembly the way a reflection API sees it:
// runtime types with '+'-separated nested names and a flat list of declared
// members per type. It is the second representation the symbol resolver
// matches the static object model against.
package live

import (
	"strings"

	"github.com/teranos/xlat/metadata"
)

// NestedSeparator separates nested types in reflection-style names.
const NestedSeparator = "+"

// MemberKind classifies declared members.
type MemberKind int

const (
	FieldMember MemberKind = iota
	MethodMember
	ConstructorMember
	PropertyMember
	EventMember
)

func (k MemberKind) String() string {
	switch k {
	case FieldMember:
		return "field"
	case MethodMember:
		return "method"
	case ConstructorMember:
		return "constructor"
	case PropertyMember:
		return "property"
	case EventMember:
		return "event"
	default:
		return "unknown"
	}
}

// TypeInfo is the name and namespace of a referenced type.
type TypeInfo struct {
	Name               string
	Namespace          string
	IsGenericParameter bool
	IsNested           bool
}

// Param is a method parameter.
type Param struct {
	Name string
	Type TypeInfo
}

// Member is a declared member of a live type.
type Member struct {
	Name         string
	Kind         MemberKind
	Params       []Param
	ReturnType   *TypeInfo
	GenericArity int
	Directives   []metadata.Directive

	declaring *Type
}

// DeclaringType returns the type declaring the member.
func (m *Member) DeclaringType() *Type {
	return m.declaring
}

// Type is a runtime type.
type Type struct {
	Namespace    string
	Name         string
	GenericArity int
	Directives   []metadata.Directive

	declaring *Type
	members   []*Member
	nested    []*Type
}

// FullName returns Namespace.Outer+Inner.
func (t *Type) FullName() string {
	if t.declaring != nil {
		return t.declaring.FullName() + NestedSeparator + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// DeclaringType returns the enclosing type, or nil.
func (t *Type) DeclaringType() *Type {
	return t.declaring
}

// DeclaredMembers returns the members in declaration order.
func (t *Type) DeclaredMembers() []*Member {
	return t.members
}

// NestedTypes returns the nested types in declaration order.
func (t *Type) NestedTypes() []*Type {
	return t.nested
}

// Assembly is a loaded assembly.
type Assembly struct {
	Name    string
	Version string
	types   []*Type
	byName  map[string]*Type
}

// Types returns every type, nested ones after their declaring type.
func (a *Assembly) Types() []*Type {
	return a.types
}

// GetType looks a type up by reflection-style full name.
func (a *Assembly) GetType(fullName string) (*Type, bool) {
	t, ok := a.byName[fullName]
	return t, ok
}

// Load builds the live view of a metadata assembly.
func Load(asm *metadata.Assembly) *Assembly {
	a := &Assembly{
		Name:    asm.Name,
		Version: asm.Version,
		byName:  make(map[string]*Type),
	}
	for _, td := range asm.Types {
		a.load(td, nil)
	}
	return a
}

func (a *Assembly) load(td *metadata.TypeDef, declaring *Type) *Type {
	t := &Type{
		Namespace:    td.Namespace,
		Name:         td.Name,
		GenericArity: len(td.GenericParams),
		Directives:   td.Directives,
		declaring:    declaring,
	}
	if declaring != nil {
		t.Namespace = declaring.Namespace
		declaring.nested = append(declaring.nested, t)
	}
	a.types = append(a.types, t)
	a.byName[t.FullName()] = t

	for _, f := range td.Fields {
		t.add(&Member{Name: f.Name, Kind: FieldMember, ReturnType: TypeInfoOf(&f.Type), Directives: f.Directives})
	}
	for _, m := range td.Methods {
		kind := MethodMember
		if m.IsConstructor() {
			kind = ConstructorMember
		}
		lm := &Member{
			Name:         m.Name,
			Kind:         kind,
			GenericArity: len(m.GenericParams),
			Directives:   m.Directives,
		}
		if kind == MethodMember {
			lm.ReturnType = TypeInfoOf(m.ReturnType)
		}
		for _, p := range m.Params {
			lm.Params = append(lm.Params, Param{Name: p.Name, Type: *TypeInfoOf(&p.Type)})
		}
		t.add(lm)
	}
	for _, p := range td.Properties {
		t.add(&Member{Name: p.Name, Kind: PropertyMember, ReturnType: TypeInfoOf(&p.Type), Directives: p.Directives})
	}
	for _, e := range td.Events {
		t.add(&Member{Name: e.Name, Kind: EventMember, ReturnType: TypeInfoOf(&e.Type), Directives: e.Directives})
	}
	for _, n := range td.NestedTypes {
		a.load(n, t)
	}
	return t
}

func (t *Type) add(m *Member) {
	m.declaring = t
	t.members = append(t.members, m)
}

// TypeInfoOf converts a static reference; nested references keep only the
// innermost name, as reflection reports them.
func TypeInfoOf(ref *metadata.TypeRef) *TypeInfo {
	if ref == nil {
		return &TypeInfo{Name: "Void", Namespace: "System"}
	}
	info := &TypeInfo{
		Name:               ref.Name,
		Namespace:          ref.Namespace,
		IsGenericParameter: ref.GenericParameter,
		IsNested:           ref.IsNested(),
	}
	if ref.Array {
		info.Name += "[]"
	}
	return info
}

// StaticName converts a reflection-style full name to the static form.
func StaticName(fullName string) string {
	return strings.ReplaceAll(fullName, NestedSeparator, metadata.NestedSeparator)
}
