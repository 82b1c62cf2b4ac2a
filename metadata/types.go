// Package metadata is the contract with the assembly metadata reader.
//
// The reader turns a compiled assembly into a plain graph of records:
// types, members, method bodies and the override directives attached to
// each of them. Everything above this package (object model, annotation
// resolver, symbol resolver) works on these records only.
//
// Names follow the static-view conventions: nested types are separated
// from their declaring type by '/', generic arity is kept as a backtick
// suffix on the raw type name (List`1).
package metadata

import "strings"

// TypeCategory is the declared category of a type.
type TypeCategory string

const (
	CategoryClass     TypeCategory = "class"
	CategoryInterface TypeCategory = "interface"
	CategoryStruct    TypeCategory = "struct"
	CategoryEnum      TypeCategory = "enum"
	CategoryDelegate  TypeCategory = "delegate"
)

// NestedSeparator separates a nested type from its declaring type in static names.
const NestedSeparator = "/"

// Assembly is one compiled module as seen by the reader.
type Assembly struct {
	Name       string        `yaml:"name"`
	Version    string        `yaml:"version,omitempty"`
	References []AssemblyRef `yaml:"references,omitempty"`
	Types      []*TypeDef    `yaml:"types"`
	Directives []Directive   `yaml:"directives,omitempty"`

	// Path is the file the assembly was read from.
	Path string `yaml:"-"`
}

// AssemblyRef names another assembly this one depends on.
type AssemblyRef struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

// Directive is a platform-scoped override instruction attached to a node.
// Platform is "*" or a lowercase platform token; empty means "*".
type Directive struct {
	Kind     string `yaml:"kind"`
	Value    string `yaml:"value,omitempty"`
	Platform string `yaml:"platform,omitempty"`
}

// Wildcard is the platform pattern matching every platform.
const Wildcard = "*"

// PlatformPattern returns the normalized platform pattern of the directive.
func (d Directive) PlatformPattern() string {
	p := strings.TrimSpace(d.Platform)
	if p == "" {
		return Wildcard
	}
	return p
}

// TypeRef references a type, possibly in another assembly.
type TypeRef struct {
	Namespace string `yaml:"namespace,omitempty"`
	Name      string `yaml:"name"`
	// DeclaringType is the '/'-separated path of enclosing types for nested types.
	DeclaringType    string    `yaml:"declaring-type,omitempty"`
	Assembly         string    `yaml:"assembly,omitempty"`
	GenericParameter bool      `yaml:"generic-parameter,omitempty"`
	Arguments        []TypeRef `yaml:"arguments,omitempty"`
	Array            bool      `yaml:"array,omitempty"`
}

// FullName returns the static full name: Namespace.Declaring/Name.
func (r TypeRef) FullName() string {
	if r.GenericParameter {
		return r.Name
	}
	return joinFullName(r.Namespace, r.DeclaringType, r.Name)
}

// IsNested reports whether the reference points at a nested type.
func (r TypeRef) IsNested() bool {
	return r.DeclaringType != ""
}

// IsZero reports whether the reference is empty.
func (r TypeRef) IsZero() bool {
	return r.Name == ""
}

// GenericParam declares a generic parameter and its constraints.
type GenericParam struct {
	Name       string      `yaml:"name"`
	Extends    *TypeRef    `yaml:"extends,omitempty"`
	Implements []TypeRef   `yaml:"implements,omitempty"`
	Directives []Directive `yaml:"directives,omitempty"`
}

// TypeDef is a type declared in the assembly.
type TypeDef struct {
	Namespace     string          `yaml:"namespace,omitempty"`
	Name          string          `yaml:"name"`
	Category      TypeCategory    `yaml:"kind"`
	Access        string          `yaml:"access,omitempty"`
	Modifiers     []string        `yaml:"modifiers,omitempty"`
	BaseType      *TypeRef        `yaml:"base,omitempty"`
	Interfaces    []TypeRef       `yaml:"interfaces,omitempty"`
	GenericParams []*GenericParam `yaml:"generic-parameters,omitempty"`
	Fields        []*FieldDef     `yaml:"fields,omitempty"`
	Methods       []*MethodDef    `yaml:"methods,omitempty"`
	Properties    []*PropertyDef  `yaml:"properties,omitempty"`
	Events        []*EventDef     `yaml:"events,omitempty"`
	NestedTypes   []*TypeDef      `yaml:"nested,omitempty"`
	Directives    []Directive     `yaml:"directives,omitempty"`

	// DeclaringType is set by Link for nested types.
	DeclaringType *TypeDef `yaml:"-"`
}

// DeclaringPath returns the '/'-separated path of enclosing type names.
func (t *TypeDef) DeclaringPath() string {
	if t.DeclaringType == nil {
		return ""
	}
	outer := t.DeclaringType.DeclaringPath()
	if outer == "" {
		return t.DeclaringType.Name
	}
	return outer + NestedSeparator + t.DeclaringType.Name
}

// FullName returns the static full name of the type.
func (t *TypeDef) FullName() string {
	ns := t.Namespace
	if t.DeclaringType != nil {
		ns = t.DeclaringType.outermost().Namespace
	}
	return joinFullName(ns, t.DeclaringPath(), t.Name)
}

// Ref returns a reference to this type.
func (t *TypeDef) Ref(assembly string) TypeRef {
	ns := t.Namespace
	if t.DeclaringType != nil {
		ns = t.DeclaringType.outermost().Namespace
	}
	return TypeRef{Namespace: ns, Name: t.Name, DeclaringType: t.DeclaringPath(), Assembly: assembly}
}

func (t *TypeDef) outermost() *TypeDef {
	for t.DeclaringType != nil {
		t = t.DeclaringType
	}
	return t
}

// HasModifier reports whether the modifier list contains m.
func (t *TypeDef) HasModifier(m string) bool {
	return hasModifier(t.Modifiers, m)
}

// FieldDef is a field declaration.
type FieldDef struct {
	Name       string      `yaml:"name"`
	Type       TypeRef     `yaml:"type"`
	Access     string      `yaml:"access,omitempty"`
	Modifiers  []string    `yaml:"modifiers,omitempty"`
	Value      string      `yaml:"value,omitempty"`
	Directives []Directive `yaml:"directives,omitempty"`
}

// ParamDef is a method parameter.
type ParamDef struct {
	Name       string      `yaml:"name"`
	Type       TypeRef     `yaml:"type"`
	Directives []Directive `yaml:"directives,omitempty"`
}

// MethodDef is a method declaration with an optional body.
type MethodDef struct {
	Name          string          `yaml:"name"`
	ReturnType    *TypeRef        `yaml:"return,omitempty"`
	Params        []ParamDef      `yaml:"params,omitempty"`
	GenericParams []*GenericParam `yaml:"generic-parameters,omitempty"`
	Access        string          `yaml:"access,omitempty"`
	Modifiers     []string        `yaml:"modifiers,omitempty"`
	Body          *MethodBody     `yaml:"body,omitempty"`
	Directives    []Directive     `yaml:"directives,omitempty"`
}

// IsConstructor reports whether the method is an instance or type initializer.
func (m *MethodDef) IsConstructor() bool {
	return m.Name == ".ctor" || m.Name == ".cctor"
}

// PropertyDef is a property declaration.
type PropertyDef struct {
	Name       string      `yaml:"name"`
	Type       TypeRef     `yaml:"type"`
	Access     string      `yaml:"access,omitempty"`
	Modifiers  []string    `yaml:"modifiers,omitempty"`
	Getter     bool        `yaml:"getter,omitempty"`
	Setter     bool        `yaml:"setter,omitempty"`
	Directives []Directive `yaml:"directives,omitempty"`
}

// EventDef is an event declaration.
type EventDef struct {
	Name       string      `yaml:"name"`
	Type       TypeRef     `yaml:"type"`
	Access     string      `yaml:"access,omitempty"`
	Modifiers  []string    `yaml:"modifiers,omitempty"`
	Directives []Directive `yaml:"directives,omitempty"`
}

// MethodBody is the intermediate-language body of a method.
type MethodBody struct {
	Instructions []Instruction      `yaml:"instructions,omitempty"`
	Handlers     []ExceptionHandler `yaml:"handlers,omitempty"`
}

// NoTarget marks an instruction without a branch target.
const NoTarget = -1

// Instruction is a single IL instruction.
type Instruction struct {
	Offset  int    `yaml:"offset"`
	OpCode  string `yaml:"opcode"`
	Operand string `yaml:"operand,omitempty"`
	// Target is the branch target offset, or NoTarget. Link fills it in.
	Target *int `yaml:"target,omitempty"`
}

// BranchTarget returns the branch target offset or NoTarget.
func (i Instruction) BranchTarget() int {
	if i.Target == nil {
		return NoTarget
	}
	return *i.Target
}

// HandlerKind is the kind of an exception handler clause.
type HandlerKind string

const (
	HandlerCatch   HandlerKind = "catch"
	HandlerFinally HandlerKind = "finally"
	HandlerFault   HandlerKind = "fault"
	HandlerFilter  HandlerKind = "filter"
)

// ExceptionHandler is a protected region and its handler, as offsets.
// End offsets are exclusive.
type ExceptionHandler struct {
	Kind         HandlerKind `yaml:"kind"`
	TryStart     int         `yaml:"try-start"`
	TryEnd       int         `yaml:"try-end"`
	HandlerStart int         `yaml:"handler-start"`
	HandlerEnd   int         `yaml:"handler-end"`
	CatchType    *TypeRef    `yaml:"catch,omitempty"`
}

func joinFullName(namespace, declaring, name string) string {
	var sb strings.Builder
	if namespace != "" {
		sb.WriteString(namespace)
		sb.WriteString(".")
	}
	if declaring != "" {
		sb.WriteString(declaring)
		sb.WriteString(NestedSeparator)
	}
	sb.WriteString(name)
	return sb.String()
}

func hasModifier(mods []string, m string) bool {
	for _, x := range mods {
		if strings.EqualFold(x, m) {
			return true
		}
	}
	return false
}

// HasModifier reports whether mods contains m, case-insensitively.
func HasModifier(mods []string, m string) bool {
	return hasModifier(mods, m)
}

// StripArity removes a backtick generic-arity suffix: "List`1" -> "List".
func StripArity(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}
