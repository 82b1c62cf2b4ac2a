package typescript

import (
	"strconv"
	"strings"

	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/translators/textutil"
)

// accessorPrefixes mark compiler-generated property and event accessors.
var accessorPrefixes = []string{"get_", "set_", "add_", "remove_"}

func (t *Translator) modifiers(def *annotation.Definition, owner *model.Kind) string {
	if owner.Category() == metadata.CategoryInterface {
		return ""
	}
	var sb strings.Builder
	switch strings.ToLower(def.Access) {
	case "private":
		sb.WriteString("private ")
	case "protected", "family":
		sb.WriteString("protected ")
	}
	if def.HasModifier("static") || def.HasModifier("const") {
		sb.WriteString("static ")
	}
	if def.HasModifier("abstract") {
		sb.WriteString("abstract ")
	}
	return sb.String()
}

func (t *Translator) TranslateField(ctx *engine.Context, f *model.Field) (engine.Artifact, error) {
	owner := f.Owner()
	if t.memberFrame(owner) == nil {
		return nil, nil
	}
	def := ctx.Definition(f)

	if owner.Category() == metadata.CategoryEnum {
		if f.Def.Name == "value__" || def.HasModifier("specialname") {
			return nil, nil
		}
		line := def.Name
		if f.Def.Value != "" {
			line += " = " + f.Def.Value
		}
		return t.emit(ctx, def, line+","), nil
	}

	line := t.modifiers(def, owner)
	if def.HasModifier("readonly") || def.HasModifier("initonly") || def.HasModifier("const") {
		line += "readonly "
	}
	line += def.Name + ": " + t.typeName(ctx, f.Def.Type, owner) + ";"
	return t.emit(ctx, def, line), nil
}

func (t *Translator) TranslateMethod(ctx *engine.Context, m *model.Method) (engine.Artifact, error) {
	owner := m.Owner()
	if t.memberFrame(owner) == nil || m.Def.Name == ".cctor" {
		return nil, nil
	}
	def := ctx.Definition(m)
	if def.HasModifier("specialname") {
		for _, p := range accessorPrefixes {
			if strings.HasPrefix(m.Def.Name, p) {
				return nil, nil
			}
		}
	}

	params := t.parameters(ctx, def, m)
	if m.Def.Name == ".ctor" {
		if owner.Category() == metadata.CategoryInterface {
			return nil, nil
		}
		return t.emit(ctx, def, "constructor("+params+");"), nil
	}

	line := t.modifiers(def, owner) + def.Name + t.generics(ctx, def, m.GenericParameters) +
		"(" + params + "): " + t.returnType(ctx, m) + ";"
	return t.emit(ctx, def, line), nil
}

func (t *Translator) parameters(ctx *engine.Context, def *annotation.Definition, m *model.Method) string {
	if def.Parameters != "" {
		return def.Parameters
	}
	parts := make([]string, len(m.Def.Params))
	for i, p := range m.Def.Params {
		name := p.Name
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		parts[i] = textutil.Identifier(name) + ": " + t.typeName(ctx, p.Type, m.Owner())
	}
	return strings.Join(parts, ", ")
}

func (t *Translator) returnType(ctx *engine.Context, m *model.Method) string {
	if m.Def.ReturnType == nil {
		return "void"
	}
	return t.typeName(ctx, *m.Def.ReturnType, m.Owner())
}

func (t *Translator) TranslateProperty(ctx *engine.Context, p *model.Property) (engine.Artifact, error) {
	owner := p.Owner()
	if t.memberFrame(owner) == nil {
		return nil, nil
	}
	def := ctx.Definition(p)
	line := t.modifiers(def, owner)
	if p.Def.Getter && !p.Def.Setter {
		line += "readonly "
	}
	line += def.Name + ": " + t.typeName(ctx, p.Def.Type, owner) + ";"
	return t.emit(ctx, def, line), nil
}

func (t *Translator) TranslateEvent(ctx *engine.Context, e *model.Event) (engine.Artifact, error) {
	owner := e.Owner()
	if t.memberFrame(owner) == nil {
		return nil, nil
	}
	def := ctx.Definition(e)
	handler := t.typeName(ctx, e.Def.Type, owner)
	line := t.modifiers(def, owner) + "on" + textutil.ToPascalCase(def.Name) + "(handler: " + handler + "): void;"
	return t.emit(ctx, def, line), nil
}
