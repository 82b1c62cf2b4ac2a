// Package model is the object model of a bundle under translation.
//
// A Bundle owns Packages, a Package owns Kinds, a Kind owns its members,
// nested Kinds and generic-parameter placeholder Kinds, and a Method owns
// the ordered IL elements of its body. The model is built once when a
// bundle is opened and is read-only afterwards.
package model

import "github.com/teranos/xlat/metadata"

// NodeKind identifies the structural kind of a node.
type NodeKind int

const (
	BundleNode NodeKind = iota
	PackageNode
	KindNode
	FieldNode
	MethodNode
	PropertyNode
	EventNode
	ILNode
)

var nodeKindNames = map[NodeKind]string{
	BundleNode:   "bundle",
	PackageNode:  "package",
	KindNode:     "kind",
	FieldNode:    "field",
	MethodNode:   "method",
	PropertyNode: "property",
	EventNode:    "event",
	ILNode:       "il",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is implemented by every element of the object model.
type Node interface {
	// NodeKind returns the structural kind of the node.
	NodeKind() NodeKind

	// Name returns the raw simple name.
	Name() string

	// FullName returns an identity unique within the bundle.
	FullName() string

	// Directives returns the override directives attached to the node, in
	// declaration order.
	Directives() []metadata.Directive

	// Parent returns the owning node, or nil for the bundle.
	Parent() Node
}

// Member is a Field, Method, Property or Event.
type Member interface {
	Node

	// Owner returns the Kind that owns the member.
	Owner() *Kind
}
