package typescript

import (
	"strings"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// DefaultTypes maps framework type names to TypeScript types.
var DefaultTypes = map[string]string{
	"System.String":   "string",
	"System.Char":     "string",
	"System.Guid":     "string",
	"System.Boolean":  "boolean",
	"System.Byte":     "number",
	"System.SByte":    "number",
	"System.Int16":    "number",
	"System.UInt16":   "number",
	"System.Int32":    "number",
	"System.UInt32":   "number",
	"System.Int64":    "number",
	"System.UInt64":   "number",
	"System.Single":   "number",
	"System.Double":   "number",
	"System.Decimal":  "number",
	"System.Object":   "any",
	"System.Void":     "void",
	"System.DateTime": "Date",

	"System.Collections.Generic.List`1":        "Array",
	"System.Collections.Generic.IList`1":       "Array",
	"System.Collections.Generic.IEnumerable`1": "Iterable",
	"System.Collections.Generic.Dictionary`2":  "Map",
	"System.Collections.Generic.HashSet`1":     "Set",
	"System.Threading.Tasks.Task":              "Promise<void>",
	"System.Threading.Tasks.Task`1":            "Promise",
}

// implicitBases are base types that add nothing to a declaration.
var implicitBases = map[string]bool{
	"":                         true,
	"System.Object":            true,
	"System.ValueType":         true,
	"System.Enum":              true,
	"System.Delegate":          true,
	"System.MulticastDelegate": true,
}

const nullable = "System.Nullable`1"

// typeName renders ref as a TypeScript type seen from caller.
func (t *Translator) typeName(ctx *engine.Context, ref metadata.TypeRef, caller *model.Kind) string {
	if ref.IsZero() {
		return "void"
	}
	var sb strings.Builder
	switch full := ref.FullName(); {
	case ref.GenericParameter:
		sb.WriteString(ref.Name)
	case full == nullable && len(ref.Arguments) == 1:
		inner := t.typeName(ctx, ref.Arguments[0], caller)
		if ref.Array {
			return "(" + inner + " | null)[]"
		}
		return inner + " | null"
	default:
		if mapped, ok := t.types[full]; ok {
			sb.WriteString(mapped)
		} else {
			bare := metadata.TypeRef{
				Namespace:     ref.Namespace,
				Name:          ref.Name,
				DeclaringType: ref.DeclaringType,
				Assembly:      ref.Assembly,
			}
			sb.WriteString(ctx.DisplayTypeRef(bare, caller))
		}
		if len(ref.Arguments) > 0 {
			sb.WriteString("<")
			for i, arg := range ref.Arguments {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(t.typeName(ctx, arg, caller))
			}
			sb.WriteString(">")
		}
	}
	if ref.Array {
		sb.WriteString("[]")
	}
	return sb.String()
}

// namedType renders a type given by its static full name, as found in
// effective definitions.
func (t *Translator) namedType(full string) string {
	if mapped, ok := t.types[full]; ok {
		return mapped
	}
	parts := strings.FieldsFunc(full, func(r rune) bool { return r == '/' || r == '+' })
	for i, p := range parts {
		parts[i] = metadata.StripArity(p)
	}
	return strings.Join(parts, ".")
}
