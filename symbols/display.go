package symbols

import (
	"strings"

	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// DisplayName returns the name to emit for target when referenced from
// caller: the short name for generic placeholders and for the caller itself
// or anything nested in it, the dotted qualified name otherwise.
func DisplayName(target, caller *model.Kind) string {
	if target.IsPlaceHolderGenericParameter {
		return target.Name()
	}
	if caller != nil && !caller.IsPlaceHolderGenericParameter {
		if target.Is(caller) || target.IsNestedIn(caller) {
			return target.ShortName()
		}
	}
	return target.DottedName()
}

// DisplayTypeRef renders a type reference seen from caller. References to
// kinds of the caller's bundle go through DisplayName; generic arguments
// and array ranks are rendered as <A, B> and [].
func DisplayTypeRef(ref metadata.TypeRef, caller *model.Kind) string {
	var sb strings.Builder
	sb.WriteString(displayBase(ref, caller))
	if len(ref.Arguments) > 0 {
		sb.WriteString("<")
		for i, arg := range ref.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(DisplayTypeRef(arg, caller))
		}
		sb.WriteString(">")
	}
	if ref.Array {
		sb.WriteString("[]")
	}
	return sb.String()
}

func displayBase(ref metadata.TypeRef, caller *model.Kind) string {
	if ref.GenericParameter {
		return ref.Name
	}
	if caller != nil && caller.Package() != nil {
		if target, ok := caller.Package().Bundle().FindKind(ref.FullName()); ok {
			return DisplayName(target, caller)
		}
	}

	full := ref.FullName()
	if caller != nil && !caller.IsPlaceHolderGenericParameter {
		own := caller.FullName()
		if full == own || strings.HasPrefix(full, own+metadata.NestedSeparator) {
			return metadata.StripArity(ref.Name)
		}
	}
	return DottedRef(ref)
}

// DottedRef returns the qualified name of a reference with '.' between
// nested types and generic arity suffixes removed.
func DottedRef(ref metadata.TypeRef) string {
	parts := make([]string, 0, 4)
	if ref.Namespace != "" {
		parts = append(parts, ref.Namespace)
	}
	if ref.DeclaringType != "" {
		for _, p := range strings.Split(ref.DeclaringType, metadata.NestedSeparator) {
			parts = append(parts, metadata.StripArity(p))
		}
	}
	parts = append(parts, metadata.StripArity(ref.Name))
	return strings.Join(parts, ".")
}
