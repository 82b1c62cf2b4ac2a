// Package markdown renders a bundle as a Markdown outline: one document
// per platform listing packages, kinds, members and, optionally, IL bodies.
package markdown

import (
	"path"
	"strings"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/plugin"
	"github.com/teranos/xlat/translators/textutil"
)

const (
	ModuleName = "xlat-markdown"
	ClassName  = "Outline"
)

// Module returns the static module exposing the outline translator.
func Module() *plugin.Module {
	return &plugin.Module{
		Name:        ModuleName,
		Version:     "1.0.0",
		XlatVersion: "^1.2",
		Description: "Markdown outline of a bundle",
		Classes: map[string]plugin.Factory{
			ClassName: func() engine.Translator { return New() },
		},
	}
}

// Translator writes the outline.
type Translator struct {
	engine.BaseTranslator

	// IncludeIL lists method bodies in fenced blocks.
	IncludeIL bool

	file  string
	fence map[*model.Method]bool
}

// New creates an outline translator listing IL bodies.
func New() *Translator {
	return &Translator{IncludeIL: true}
}

func (t *Translator) TranslateBundle(ctx *engine.Context, b *model.Bundle) (engine.Artifact, error) {
	dir := ""
	if ctx.Platform != metadata.Wildcard {
		dir = ctx.Platform
		ctx.CreateDirectory(dir)
	}
	t.file = path.Join(dir, textutil.Identifier(b.Name())+".md")
	t.fence = make(map[*model.Method]bool)

	var sb strings.Builder
	sb.WriteString("# " + b.Name() + "\n\n")
	if v := b.Assembly.Version; v != "" {
		sb.WriteString("Version " + v + ", platform `" + ctx.Platform + "`\n\n")
	}
	if refs := b.Assembly.References; len(refs) > 0 {
		sb.WriteString("References:\n\n")
		for _, r := range refs {
			sb.WriteString("- " + r.Name)
			if r.Version != "" {
				sb.WriteString(" " + r.Version)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	ctx.Write(t.file, sb.String())
	return t.file, nil
}

func (t *Translator) TranslatePackage(ctx *engine.Context, p *model.Package) (engine.Artifact, error) {
	ns := p.Namespace
	if ns == "" {
		ns = "(global)"
	}
	line := "## " + ns
	ctx.Append(t.file, line+"\n\n")
	return line, nil
}

// heading returns the heading level of k: 3 for top-level kinds, one
// deeper per enclosing kind, at most 6.
func heading(k *model.Kind) string {
	level := 3
	for e := k.Enclosing(); e != nil && level < 6; e = e.Enclosing() {
		level++
	}
	return strings.Repeat("#", level)
}

func (t *Translator) TranslateKind(ctx *engine.Context, k *model.Kind) (engine.Artifact, error) {
	def := ctx.Definition(k)

	var sb strings.Builder
	for _, l := range textutil.Lines(def.PreBody) {
		sb.WriteString("> " + l + "\n")
	}
	title := heading(k) + " " + string(k.Category()) + " `" + def.Name + generics(ctx, k) + "`"
	sb.WriteString(title + "\n\n")

	if def.Access != "" || len(def.Modifiers) > 0 {
		sb.WriteString("*" + strings.TrimSpace(def.Access+" "+strings.Join(def.Modifiers, " ")) + "*\n\n")
	}
	if def.BaseType != "" {
		sb.WriteString("- extends `" + def.BaseType + "`\n")
	}
	for _, i := range def.Interfaces {
		sb.WriteString("- implements `" + i + "`\n")
	}
	if def.BaseType != "" || len(def.Interfaces) > 0 {
		sb.WriteString("\n")
	}
	if def.Code != "" {
		sb.WriteString("```\n" + def.Code + "\n```\n\n")
	}
	ctx.Append(t.file, sb.String())
	return title, nil
}

func generics(ctx *engine.Context, k *model.Kind) string {
	if len(k.GenericParameters) == 0 {
		return ""
	}
	names := make([]string, len(k.GenericParameters))
	for i, gp := range k.GenericParameters {
		names[i] = ctx.Name(gp)
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func (t *Translator) member(ctx *engine.Context, node model.Node, label, signature string) string {
	def := ctx.Definition(node)
	line := "- " + label + " `" + signature + "`"
	if def.Access != "" {
		line += " *" + def.Access + "*"
	}
	ctx.Append(t.file, line+"\n")
	return line
}

func (t *Translator) TranslateField(ctx *engine.Context, f *model.Field) (engine.Artifact, error) {
	sig := ctx.Name(f)
	if !f.Def.Type.IsZero() {
		sig += ": " + ctx.DisplayTypeRef(f.Def.Type, f.Owner())
	}
	if f.Def.Value != "" {
		sig += " = " + f.Def.Value
	}
	return t.member(ctx, f, "field", sig), nil
}

func (t *Translator) TranslateMethod(ctx *engine.Context, m *model.Method) (engine.Artifact, error) {
	def := ctx.Definition(m)
	params := def.Parameters
	if params == "" {
		parts := make([]string, len(m.Def.Params))
		for i, p := range m.Def.Params {
			parts[i] = p.Name + ": " + ctx.DisplayTypeRef(p.Type, m.Owner())
		}
		params = strings.Join(parts, ", ")
	}
	sig := def.Name + "(" + params + ")"
	if m.Def.ReturnType != nil {
		sig += ": " + ctx.DisplayTypeRef(*m.Def.ReturnType, m.Owner())
	}
	line := t.member(ctx, m, "method", sig)

	if t.IncludeIL && len(m.Body()) > 0 {
		ctx.Append(t.file, "\n  ```il\n")
		t.fence[m] = true
	}
	return line, nil
}

func (t *Translator) TranslateProperty(ctx *engine.Context, p *model.Property) (engine.Artifact, error) {
	var acc []string
	if p.Def.Getter {
		acc = append(acc, "get")
	}
	if p.Def.Setter {
		acc = append(acc, "set")
	}
	sig := ctx.Name(p) + ": " + ctx.DisplayTypeRef(p.Def.Type, p.Owner())
	if len(acc) > 0 {
		sig += " { " + strings.Join(acc, "; ") + "; }"
	}
	return t.member(ctx, p, "property", sig), nil
}

func (t *Translator) TranslateEvent(ctx *engine.Context, e *model.Event) (engine.Artifact, error) {
	return t.member(ctx, e, "event", ctx.Name(e)+": "+ctx.DisplayTypeRef(e.Def.Type, e.Owner())), nil
}

func (t *Translator) TranslateIL(ctx *engine.Context, el model.ILElement) (engine.Artifact, error) {
	if !t.fence[el.Method()] {
		return nil, nil
	}
	w := &ilWriter{}
	if err := el.Accept(w); err != nil {
		return nil, err
	}
	ctx.Append(t.file, "  "+w.line+"\n")
	return w.line, nil
}

func (t *Translator) Close(ctx *engine.Context, node model.Node) error {
	switch n := node.(type) {
	case *model.Method:
		if t.fence[n] {
			ctx.Append(t.file, "  ```\n\n")
			delete(t.fence, n)
		}
	case *model.Kind:
		if post := ctx.Definition(n).PostBody; post != "" {
			ctx.Append(t.file, "\n"+post+"\n")
		}
		ctx.Append(t.file, "\n")
	}
	return nil
}
