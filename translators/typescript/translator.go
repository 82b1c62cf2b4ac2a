// Package typescript translates a bundle into TypeScript declaration
// files, one per package, plus an index referencing all of them.
package typescript

import (
	"path"
	"sort"
	"strings"

	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
	"github.com/teranos/xlat/plugin"
	"github.com/teranos/xlat/translators/textutil"
)

const (
	// ModuleName is the module-path a descriptor uses for this translator.
	ModuleName = "xlat-typescript"
	// ClassName is the descriptor class-name of the translator.
	ClassName = "TypeScript"

	// IndexFile references every generated declaration file.
	IndexFile = "index.d.ts"
)

// Module returns the static module exposing the translator.
func Module() *plugin.Module {
	return &plugin.Module{
		Name:        ModuleName,
		Version:     "1.0.0",
		XlatVersion: "^1.2",
		Description: "TypeScript declaration files",
		Classes: map[string]plugin.Factory{
			ClassName: func() engine.Translator { return New() },
		},
	}
}

// frame is an open kind declaration.
type frame struct {
	kind     *model.Kind
	block    bool
	nested   bool
	postBody string
}

// Translator emits .d.ts files.
type Translator struct {
	engine.BaseTranslator

	types  map[string]string
	file   string
	files  []string
	frames []*frame
}

// New creates a translator using DefaultTypes.
func New() *Translator {
	types := make(map[string]string, len(DefaultTypes))
	for k, v := range DefaultTypes {
		types[k] = v
	}
	return &Translator{types: types}
}

// MapType overrides the TypeScript rendering of a type full name.
func (t *Translator) MapType(fullName, ts string) {
	t.types[fullName] = ts
}

func platformDir(platform string) string {
	if platform == metadata.Wildcard {
		return ""
	}
	return platform
}

func (t *Translator) TranslateBundle(ctx *engine.Context, b *model.Bundle) (engine.Artifact, error) {
	t.files = nil
	t.frames = nil
	t.file = ""
	if dir := platformDir(ctx.Platform); dir != "" {
		ctx.CreateDirectory(dir)
	}
	return b.Name(), nil
}

func (t *Translator) TranslatePackage(ctx *engine.Context, p *model.Package) (engine.Artifact, error) {
	ns := p.Namespace
	if ns == "" {
		ns = textutil.Identifier(p.Bundle().Name())
	}
	name := ns + ".d.ts"
	t.file = path.Join(platformDir(ctx.Platform), name)
	t.files = append(t.files, name)

	var sb strings.Builder
	sb.WriteString("/* eslint-disable */\n")
	sb.WriteString("// Generated by xlat from " + p.Bundle().Name() + ". Do not edit.\n")
	for _, imp := range imports(ctx, p) {
		sb.WriteString(`/// <reference path="` + imp + `" />` + "\n")
	}
	sb.WriteString("\n")
	ctx.Write(t.file, sb.String())

	ctx.AppendLine(t.file, "declare namespace "+ns+" {")
	ctx.Enter()
	return t.file, nil
}

// imports collects the effective imports of every visible kind of p.
func imports(ctx *engine.Context, p *model.Package) []string {
	seen := make(map[string]bool)
	var out []string
	var visit func(k *model.Kind)
	visit = func(k *model.Kind) {
		def := ctx.Definition(k)
		if !def.Visible {
			return
		}
		for _, imp := range def.Imports {
			if !seen[imp] {
				seen[imp] = true
				out = append(out, imp)
			}
		}
		for _, n := range k.Nested {
			visit(n)
		}
	}
	for _, k := range p.Kinds() {
		visit(k)
	}
	sort.Strings(out)
	return out
}

func (t *Translator) TranslateKind(ctx *engine.Context, k *model.Kind) (engine.Artifact, error) {
	def := ctx.Definition(k)
	header, block, err := t.kindHeader(ctx, k, def)
	if err != nil {
		return nil, err
	}

	if outer := t.top(); outer != nil && k.Enclosing() != nil && !outer.nested {
		// Nested kinds live in a namespace merged with the outer declaration.
		if outer.block {
			ctx.Exit()
			ctx.AppendLine(t.file, "}")
		}
		ctx.AppendLine(t.file, "export namespace "+ctx.Name(outer.kind)+" {")
		ctx.Enter()
		outer.nested = true
	}

	t.lines(ctx, def.PreBody)
	ctx.AppendLine(t.file, header)
	if block {
		ctx.Enter()
		t.lines(ctx, def.Code)
	}
	t.frames = append(t.frames, &frame{kind: k, block: block, postBody: def.PostBody})
	return header, nil
}

func (t *Translator) kindHeader(ctx *engine.Context, k *model.Kind, def *annotation.Definition) (string, bool, error) {
	export := "export "
	if a := strings.ToLower(def.Access); a != "" && a != "public" {
		export = ""
	}
	generics := t.generics(ctx, def, k.GenericParameters)

	switch k.Category() {
	case metadata.CategoryEnum:
		return export + "enum " + def.Name + " {", true, nil

	case metadata.CategoryInterface:
		h := export + "interface " + def.Name + generics
		if ifaces := t.namedTypes(def.Interfaces); len(ifaces) > 0 {
			h += " extends " + strings.Join(ifaces, ", ")
		}
		return h + " {", true, nil

	case metadata.CategoryClass, metadata.CategoryStruct:
		h := export
		if def.HasModifier("abstract") {
			h += "abstract "
		}
		h += "class " + def.Name + generics
		if !implicitBases[def.BaseType] {
			h += " extends " + t.namedType(def.BaseType)
		}
		if ifaces := t.namedTypes(def.Interfaces); len(ifaces) > 0 {
			h += " implements " + strings.Join(ifaces, ", ")
		}
		return h + " {", true, nil

	case metadata.CategoryDelegate:
		for _, m := range k.Methods {
			if m.Def.Name == "Invoke" {
				sig := "(" + t.parameters(ctx, ctx.Definition(m), m) + ") => " + t.returnType(ctx, m)
				return export + "type " + def.Name + generics + " = " + sig + ";", false, nil
			}
		}
		return export + "type " + def.Name + generics + " = (...args: any[]) => any;", false, nil
	}
	return "", false, errors.Mark(
		errors.Newf("unsupported type category %q for %s", k.Category(), k.FullName()),
		errors.ErrTranslation)
}

func (t *Translator) generics(ctx *engine.Context, def *annotation.Definition, params []*model.Kind) string {
	if def.Generics != "" {
		return def.Generics
	}
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, gp := range params {
		gd := ctx.Definition(gp)
		part := gd.Name
		var bounds []string
		for _, c := range gd.Constraints {
			bounds = append(bounds, t.namedTypes(c.MustExtend)...)
			bounds = append(bounds, t.namedTypes(c.MustImplement)...)
		}
		if len(bounds) > 0 {
			part += " extends " + strings.Join(bounds, " & ")
		}
		parts[i] = part
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (t *Translator) namedTypes(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, t.namedType(n))
	}
	return out
}

func (t *Translator) Close(ctx *engine.Context, node model.Node) error {
	switch n := node.(type) {
	case *model.Bundle:
		t.writeIndex(ctx, n)
	case *model.Package:
		ctx.Exit()
		ctx.AppendLine(t.file, "}")
	case *model.Kind:
		f := t.pop(n)
		if f == nil {
			return errors.Newf("no open declaration for %s", n.FullName())
		}
		if f.block || f.nested {
			ctx.Exit()
			ctx.AppendLine(t.file, "}")
		}
		t.lines(ctx, f.postBody)
	}
	return nil
}

func (t *Translator) writeIndex(ctx *engine.Context, b *model.Bundle) {
	files := append([]string(nil), t.files...)
	sort.Strings(files)

	var sb strings.Builder
	sb.WriteString("/* eslint-disable */\n")
	sb.WriteString("// Generated by xlat from " + b.Name() + " - references every package declaration\n\n")
	for _, f := range files {
		sb.WriteString(`/// <reference path="./` + f + `" />` + "\n")
	}
	ctx.Write(path.Join(platformDir(ctx.Platform), IndexFile), sb.String())
}

func (t *Translator) top() *frame {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}

func (t *Translator) pop(k *model.Kind) *frame {
	f := t.top()
	if f == nil || f.kind != k {
		return nil
	}
	t.frames = t.frames[:len(t.frames)-1]
	return f
}

// memberFrame returns the open frame members of owner are written into,
// or nil when the owner's declaration has no body.
func (t *Translator) memberFrame(owner *model.Kind) *frame {
	f := t.top()
	if f == nil || f.kind != owner || !f.block || f.nested {
		return nil
	}
	return f
}

func (t *Translator) lines(ctx *engine.Context, text string) {
	for _, l := range textutil.Lines(text) {
		ctx.AppendLine(t.file, l)
	}
}

// emit writes a member declaration honouring the prebody, code and
// postbody overrides.
func (t *Translator) emit(ctx *engine.Context, def *annotation.Definition, line string) string {
	t.lines(ctx, def.PreBody)
	if def.Code != "" {
		t.lines(ctx, def.Code)
		line = def.Code
	} else {
		ctx.AppendLine(t.file, line)
	}
	t.lines(ctx, def.PostBody)
	return line
}
