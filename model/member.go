package model

import (
	"strings"

	"github.com/teranos/xlat/metadata"
)

// Field is a field of a Kind.
type Field struct {
	Def *metadata.FieldDef

	owner *Kind
}

func (f *Field) NodeKind() NodeKind { return FieldNode }
func (f *Field) Name() string { return f.Def.Name }
func (f *Field) FullName() string { return f.owner.FullName() + "::" + f.Def.Name }
func (f *Field) Directives() []metadata.Directive { return f.Def.Directives }
func (f *Field) Parent() Node { return f.owner }
func (f *Field) Owner() *Kind { return f.owner }

// Method is a method of a Kind together with its IL body.
type Method struct {
	Def               *metadata.MethodDef
	GenericParameters []*Kind

	owner *Kind
	body  []ILElement
}

func newMethod(def *metadata.MethodDef, owner *Kind) *Method {
	m := &Method{Def: def, owner: owner}
	for _, gp := range def.GenericParams {
		m.GenericParameters = append(m.GenericParameters, newPlaceholder(gp, m, owner.pkg))
	}
	m.body = buildBody(m)
	return m
}

func (m *Method) NodeKind() NodeKind { return MethodNode }
func (m *Method) Name() string { return m.Def.Name }
func (m *Method) Directives() []metadata.Directive { return m.Def.Directives }
func (m *Method) Parent() Node { return m.owner }
func (m *Method) Owner() *Kind { return m.owner }

// FullName includes the parameter types so overloads stay distinct.
func (m *Method) FullName() string {
	params := make([]string, len(m.Def.Params))
	for i, p := range m.Def.Params {
		params[i] = p.Type.FullName()
	}
	return m.owner.FullName() + "::" + m.Def.Name + "(" + strings.Join(params, ",") + ")"
}

// Body returns the ordered IL elements of the method body.
func (m *Method) Body() []ILElement {
	return m.body
}

// GenericArity returns the number of method generic parameters.
func (m *Method) GenericArity() int {
	return len(m.GenericParameters)
}

// Property is a property of a Kind.
type Property struct {
	Def *metadata.PropertyDef

	owner *Kind
}

func (p *Property) NodeKind() NodeKind { return PropertyNode }
func (p *Property) Name() string { return p.Def.Name }
func (p *Property) FullName() string { return p.owner.FullName() + "::" + p.Def.Name }
func (p *Property) Directives() []metadata.Directive { return p.Def.Directives }
func (p *Property) Parent() Node { return p.owner }
func (p *Property) Owner() *Kind { return p.owner }

// Event is an event of a Kind.
type Event struct {
	Def *metadata.EventDef

	owner *Kind
}

func (e *Event) NodeKind() NodeKind { return EventNode }
func (e *Event) Name() string { return e.Def.Name }
func (e *Event) FullName() string { return e.owner.FullName() + "::" + e.Def.Name }
func (e *Event) Directives() []metadata.Directive { return e.Def.Directives }
func (e *Event) Parent() Node { return e.owner }
func (e *Event) Owner() *Kind { return e.owner }
