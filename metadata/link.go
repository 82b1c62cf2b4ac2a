package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/xlat/errors"
)

// branchPrefixes are the opcode families whose operand is a branch target.
var branchPrefixes = []string{"br", "leave", "beq", "bge", "bgt", "ble", "blt", "bne"}

// Link wires declaring types of nested types and fills in branch targets
// from IL_xxxx operands when the reader did not provide them.
func Link(asm *Assembly) {
	for _, t := range asm.Types {
		linkType(t, nil)
	}
}

func linkType(t *TypeDef, declaring *TypeDef) {
	t.DeclaringType = declaring
	for _, m := range t.Methods {
		if m.Body == nil {
			continue
		}
		for i := range m.Body.Instructions {
			ins := &m.Body.Instructions[i]
			if ins.Target != nil || !isBranch(ins.OpCode) {
				continue
			}
			if off, ok := ParseLabel(ins.Operand); ok {
				ins.Target = &off
			}
		}
	}
	for _, n := range t.NestedTypes {
		linkType(n, t)
	}
}

func isBranch(opcode string) bool {
	op := strings.ToLower(opcode)
	for _, p := range branchPrefixes {
		if strings.HasPrefix(op, p) {
			return true
		}
	}
	return false
}

// Label formats an offset as an IL label.
func Label(offset int) string {
	return fmt.Sprintf("IL_%04x", offset)
}

// ParseLabel parses "IL_001a" into 0x1a.
func ParseLabel(s string) (int, bool) {
	if !strings.HasPrefix(s, "IL_") {
		return 0, false
	}
	v, err := strconv.ParseInt(s[3:], 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// Validate checks structural invariants of a linked assembly: named types,
// known type categories, branch targets and handler offsets that land on
// instructions.
func Validate(asm *Assembly) error {
	var errs []error
	for _, t := range asm.Types {
		errs = append(errs, validateType(t)...)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Mark(errors.Join(errs...), errors.ErrBundle)
}

func validateType(t *TypeDef) []error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.Newf("type in namespace %q has no name", t.Namespace))
	}
	switch t.Category {
	case CategoryClass, CategoryInterface, CategoryStruct, CategoryEnum, CategoryDelegate:
	case "":
		t.Category = CategoryClass
	default:
		errs = append(errs, errors.Newf("type %s: unknown kind %q", t.FullName(), t.Category))
	}
	for _, m := range t.Methods {
		if m.Body == nil {
			continue
		}
		offsets := make(map[int]bool, len(m.Body.Instructions))
		for _, ins := range m.Body.Instructions {
			offsets[ins.Offset] = true
		}
		for _, ins := range m.Body.Instructions {
			if target := ins.BranchTarget(); target != NoTarget && !offsets[target] {
				errs = append(errs, errors.Newf("%s::%s: %s branches to missing %s",
					t.FullName(), m.Name, Label(ins.Offset), Label(target)))
			}
		}
		for i, h := range m.Body.Handlers {
			if !offsets[h.TryStart] || !offsets[h.HandlerStart] {
				errs = append(errs, errors.Newf("%s::%s: handler %d starts outside the body", t.FullName(), m.Name, i))
			}
			if h.TryEnd <= h.TryStart || h.HandlerEnd <= h.HandlerStart {
				errs = append(errs, errors.Newf("%s::%s: handler %d has an empty region", t.FullName(), m.Name, i))
			}
		}
	}
	for _, n := range t.NestedTypes {
		errs = append(errs, validateType(n)...)
	}
	return errs
}

// Walk calls fn for every type in declaration order, nested types after
// their declaring type.
func Walk(asm *Assembly, fn func(*TypeDef)) {
	var visit func(*TypeDef)
	visit = func(t *TypeDef) {
		fn(t)
		for _, n := range t.NestedTypes {
			visit(n)
		}
	}
	for _, t := range asm.Types {
		visit(t)
	}
}

// FindType returns the type with the given static full name.
func (a *Assembly) FindType(fullName string) (*TypeDef, bool) {
	var found *TypeDef
	Walk(a, func(t *TypeDef) {
		if found == nil && t.FullName() == fullName {
			found = t
		}
	})
	return found, found != nil
}
