package model

import (
	"fmt"
	"sort"

	"github.com/teranos/xlat/metadata"
)

// ILElement is one element of a method body: an instruction, an
// exception-region marker or a region-boundary marker. The set is closed;
// consumers dispatch through Accept with an ILVisitor.
type ILElement interface {
	Node

	// Method returns the method whose body contains the element.
	Method() *Method

	// Index returns the position of the element in the body.
	Index() int

	// Accept calls the visitor method matching the element variant.
	Accept(v ILVisitor) error

	ilElement()
}

// ILVisitor handles every ILElement variant.
type ILVisitor interface {
	VisitInstruction(*Instruction) error
	VisitExceptionRegion(*ExceptionRegionMarker) error
	VisitRegionBoundary(*RegionBoundaryMarker) error
}

type ilBase struct {
	method *Method
	index  int
}

func (b *ilBase) NodeKind() NodeKind { return ILNode }
func (b *ilBase) Directives() []metadata.Directive { return nil }
func (b *ilBase) Parent() Node { return b.method }
func (b *ilBase) Method() *Method { return b.method }
func (b *ilBase) Index() int { return b.index }
func (b *ilBase) ilElement() {}

func (b *ilBase) fullName(name string) string {
	return fmt.Sprintf("%s#%d:%s", b.method.FullName(), b.index, name)
}

// Instruction is an IL instruction.
type Instruction struct {
	ilBase

	Offset  int
	OpCode  string
	Operand string
	// Target is the branch target offset or metadata.NoTarget.
	Target int
}

func (i *Instruction) Name() string {
	return metadata.Label(i.Offset) + ": " + i.OpCode
}

func (i *Instruction) FullName() string {
	return i.fullName(metadata.Label(i.Offset))
}

func (i *Instruction) Accept(v ILVisitor) error {
	return v.VisitInstruction(i)
}

// RegionKind is the kind of protected or handler region.
type RegionKind string

const (
	RegionTry     RegionKind = "try"
	RegionCatch   RegionKind = "catch"
	RegionFinally RegionKind = "finally"
	RegionFault   RegionKind = "fault"
	RegionFilter  RegionKind = "filter"
)

// RegionEdge tells whether a marker opens or closes a region.
type RegionEdge string

const (
	EdgeEnter RegionEdge = "enter"
	EdgeLeave RegionEdge = "leave"
)

// ExceptionRegionMarker opens or closes a try block or handler.
type ExceptionRegionMarker struct {
	ilBase

	Region RegionKind
	Edge   RegionEdge
	// Handler is the index of the exception handler clause.
	Handler   int
	Offset    int
	CatchType *metadata.TypeRef
}

func (e *ExceptionRegionMarker) Name() string {
	return string(e.Edge) + " " + string(e.Region)
}

func (e *ExceptionRegionMarker) FullName() string {
	return e.fullName(fmt.Sprintf("%s-%s-%d", e.Edge, e.Region, e.Handler))
}

func (e *ExceptionRegionMarker) Accept(v ILVisitor) error {
	return v.VisitExceptionRegion(e)
}

// RegionBoundaryMarker is a synthetic marker placed before an instruction
// that is the target of a branch.
type RegionBoundaryMarker struct {
	ilBase

	Offset int
	Label  string
}

func (r *RegionBoundaryMarker) Name() string {
	return r.Label
}

func (r *RegionBoundaryMarker) FullName() string {
	return r.fullName("label-" + r.Label)
}

func (r *RegionBoundaryMarker) Accept(v ILVisitor) error {
	return v.VisitRegionBoundary(r)
}

// handlerRegion maps a handler clause kind to its region kind.
func handlerRegion(k metadata.HandlerKind) RegionKind {
	switch k {
	case metadata.HandlerFinally:
		return RegionFinally
	case metadata.HandlerFault:
		return RegionFault
	case metadata.HandlerFilter:
		return RegionFilter
	default:
		return RegionCatch
	}
}

type tryKey struct{ start, end int }

// buildBody lays out the IL sequence. At each offset: regions ending there
// close (innermost first), then a boundary marker if the offset is a branch
// target, then regions starting there open (try before handler), then the
// instruction itself. Regions ending past the last instruction close at the end.
func buildBody(m *Method) []ILElement {
	if m.Def.Body == nil {
		return nil
	}
	body := m.Def.Body

	targets := make(map[int]bool)
	for _, ins := range body.Instructions {
		if t := ins.BranchTarget(); t != metadata.NoTarget {
			targets[t] = true
		}
	}

	var out []ILElement
	add := func(el ILElement) {
		out = append(out, el)
	}
	base := func() ilBase {
		return ilBase{method: m, index: len(out)}
	}

	// Try regions shared by several clauses are entered and left once.
	var tries []tryKey
	seenTry := make(map[tryKey]int)
	for i, h := range body.Handlers {
		k := tryKey{h.TryStart, h.TryEnd}
		if _, ok := seenTry[k]; !ok {
			seenTry[k] = i
			tries = append(tries, k)
		}
	}

	closeAt := func(offset int) {
		for i := len(body.Handlers) - 1; i >= 0; i-- {
			h := body.Handlers[i]
			if h.HandlerEnd == offset {
				add(&ExceptionRegionMarker{ilBase: base(), Region: handlerRegion(h.Kind), Edge: EdgeLeave, Handler: i, Offset: offset, CatchType: h.CatchType})
			}
		}
		for i := len(tries) - 1; i >= 0; i-- {
			if tries[i].end == offset {
				add(&ExceptionRegionMarker{ilBase: base(), Region: RegionTry, Edge: EdgeLeave, Handler: seenTry[tries[i]], Offset: offset})
			}
		}
	}
	openAt := func(offset int) {
		for _, k := range tries {
			if k.start == offset {
				add(&ExceptionRegionMarker{ilBase: base(), Region: RegionTry, Edge: EdgeEnter, Handler: seenTry[k], Offset: offset})
			}
		}
		for i, h := range body.Handlers {
			if h.HandlerStart == offset {
				add(&ExceptionRegionMarker{ilBase: base(), Region: handlerRegion(h.Kind), Edge: EdgeEnter, Handler: i, Offset: offset, CatchType: h.CatchType})
			}
		}
	}

	last := -1
	for _, ins := range body.Instructions {
		closeAt(ins.Offset)
		if targets[ins.Offset] {
			add(&RegionBoundaryMarker{ilBase: base(), Offset: ins.Offset, Label: metadata.Label(ins.Offset)})
		}
		openAt(ins.Offset)
		add(&Instruction{ilBase: base(), Offset: ins.Offset, OpCode: ins.OpCode, Operand: ins.Operand, Target: ins.BranchTarget()})
		last = ins.Offset
	}

	// Close regions whose end lies beyond the last instruction, in offset order.
	var tail []int
	seen := make(map[int]bool)
	for _, h := range body.Handlers {
		for _, end := range []int{h.TryEnd, h.HandlerEnd} {
			if end > last && !seen[end] {
				seen[end] = true
				tail = append(tail, end)
			}
		}
	}
	sort.Ints(tail)
	for _, off := range tail {
		closeAt(off)
	}
	return out
}
