package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// pass holds the state of one run across its platform walks.
type pass struct {
	engine    *Engine
	ctx       context.Context
	bundle    *model.Bundle
	resolver  *annotation.Resolver
	res       *Result
	logger    *zap.SugaredLogger
	observers []Observer

	types       map[string]bool
	refFailures map[string]error

	c *Context
}

func (p *pass) walk() error {
	for _, platform := range p.res.Platforms {
		p.c = newContext(p.res.RunID, platform, p.engine.settings, p.bundle, p.resolver, p.logger, p.engine.indentUnit)
		p.c.resetIndent()
		b := p.bundle
		err := p.visit(b, func() (Artifact, error) {
			return p.engine.translator.TranslateBundle(p.c, b)
		}, p.walkPackages)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) walkPackages() error {
	for _, pkg := range p.bundle.Packages() {
		if err := p.checkCancelled(); err != nil {
			return err
		}
		err := p.visit(pkg, func() (Artifact, error) {
			return p.engine.translator.TranslatePackage(p.c, pkg)
		}, func() error {
			for _, k := range pkg.Kinds() {
				if err := p.checkCancelled(); err != nil {
					return err
				}
				if err := p.walkKind(k); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) walkKind(k *model.Kind) error {
	if reason := p.skipReason(k); reason != "" {
		p.res.Skipped++
		p.logger.Debugw("kind skipped",
			logger.FieldNode, k.FullName(),
			logger.FieldPlatform, p.c.Platform,
			"reason", reason)
		return nil
	}
	t := p.engine.translator
	return p.visit(k, func() (Artifact, error) {
		return t.TranslateKind(p.c, k)
	}, func() error {
		for _, f := range k.Fields {
			if err := p.member(f, func() (Artifact, error) { return t.TranslateField(p.c, f) }, nil); err != nil {
				return err
			}
		}
		for _, m := range k.Methods {
			if err := p.member(m, func() (Artifact, error) { return t.TranslateMethod(p.c, m) }, func() error {
				return p.walkBody(m)
			}); err != nil {
				return err
			}
		}
		for _, pr := range k.Properties {
			if err := p.member(pr, func() (Artifact, error) { return t.TranslateProperty(p.c, pr) }, nil); err != nil {
				return err
			}
		}
		for _, ev := range k.Events {
			if err := p.member(ev, func() (Artifact, error) { return t.TranslateEvent(p.c, ev) }, nil); err != nil {
				return err
			}
		}
		for _, n := range k.Nested {
			if err := p.walkKind(n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *pass) member(m model.Member, translate func() (Artifact, error), subtree func() error) error {
	if !p.c.IsVisible(m) {
		p.res.Skipped++
		p.logger.Debugw("member hidden", logger.FieldNode, m.FullName(), logger.FieldPlatform, p.c.Platform)
		return nil
	}
	return p.visit(m, translate, subtree)
}

func (p *pass) walkBody(m *model.Method) error {
	for _, el := range m.Body() {
		if err := p.visit(el, func() (Artifact, error) {
			return p.engine.translator.TranslateIL(p.c, el)
		}, nil); err != nil {
			return err
		}
	}
	return nil
}

// skipReason returns why a Kind is filtered out, or "".
func (p *pass) skipReason(k *model.Kind) string {
	if !p.c.IsVisible(k) {
		return "hidden"
	}
	if len(p.types) == 0 {
		return ""
	}
	for n := k; n != nil; n = n.Enclosing() {
		if p.types[n.FullName()] || p.types[n.DottedName()] || p.types[p.c.Name(n)] {
			return ""
		}
	}
	return "not in target types"
}

// visit brackets one node: Translating, resolution, the translator call,
// the subtree, the optional Close and finally Translated. A node failure
// is reported and swallowed; only run aborts are returned.
func (p *pass) visit(node model.Node, translate func() (Artifact, error), subtree func() error) error {
	p.emit(Event{Phase: Translating, Node: node, Success: true})

	if node.NodeKind() != model.ILNode {
		if err := p.resolve(node); err != nil {
			p.fail(node, nil, err)
			if p.engine.settings.StrictResolution {
				return errors.Wrapf(err, "strict resolution of %s", node.FullName())
			}
			return nil
		}
	}

	art, err := p.call(translate)
	if err != nil {
		p.fail(node, art, err)
		return nil
	}

	if subtree != nil {
		if err := subtree(); err != nil {
			p.emit(Event{Phase: Translated, Node: node, Artifact: art, Success: false, Err: err})
			return err
		}
	}

	if closer, ok := p.engine.translator.(Closer); ok {
		if _, err := p.call(func() (Artifact, error) { return nil, closer.Close(p.c, node) }); err != nil {
			p.fail(node, art, err)
			return nil
		}
	}

	p.res.Translated++
	p.emit(Event{Phase: Translated, Node: node, Artifact: art, Success: true})
	return nil
}

// call runs a translator callback, converting panics into errors, and
// forwards or discards the requests it issued.
func (p *pass) call(fn func() (Artifact, error)) (art Artifact, err error) {
	p.c.take()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Mark(errors.Newf("translator panicked: %v", r), errors.ErrTranslation)
		}
		p.flush(err)
	}()
	art, err = fn()
	if err != nil && !errors.IsAny(err, errors.ErrResolution, errors.ErrOutput, errors.ErrTranslation) {
		err = errors.Mark(err, errors.ErrTranslation)
	}
	return art, err
}

func (p *pass) flush(failure error) {
	reqs := p.c.take()
	if len(reqs) == 0 {
		return
	}
	if failure != nil && !p.engine.settings.ReturnPartial {
		p.res.Discarded += len(reqs)
		p.logger.Debugw("requests discarded", logger.FieldCount, len(reqs))
		return
	}
	for _, r := range reqs {
		p.res.Requests++
		if err := r.Dispatch(p.engine.sink); err != nil {
			p.res.OutputErrors++
			p.logger.Warnw("output request failed",
				logger.FieldPath, r.Target(),
				logger.FieldError, err)
		}
	}
}

func (p *pass) fail(node model.Node, art Artifact, err error) {
	p.res.Failed++
	p.res.Failures = append(p.res.Failures, Failure{Node: node.FullName(), Platform: p.c.Platform, Err: err})
	p.logger.Debugw("node failed",
		logger.FieldNode, node.FullName(),
		logger.FieldNodeKind, node.NodeKind().String(),
		logger.FieldPlatform, p.c.Platform,
		logger.FieldError, err)
	p.emit(Event{Phase: Translated, Node: node, Artifact: art, Success: false, Err: err})
}

// resolve reports directive problems and unresolved cross-assembly
// references of node.
func (p *pass) resolve(node model.Node) error {
	if _, err := p.resolver.Resolve(node, p.c.Platform); err != nil {
		return err
	}
	if p.engine.assemblies == nil {
		return nil
	}
	for _, ref := range references(node) {
		if err := p.resolveAssembly(ref.Assembly); err != nil {
			return err
		}
	}
	return nil
}

// resolveAssembly resolves an assembly the bundle declares as a reference.
// Assemblies the bundle does not list are treated as implicitly available.
func (p *pass) resolveAssembly(name string) error {
	if name == "" || name == p.bundle.Assembly.Name {
		return nil
	}
	if err, seen := p.refFailures[name]; seen {
		return err
	}
	for _, ref := range p.bundle.Assembly.References {
		if ref.Name != name {
			continue
		}
		_, err := p.engine.assemblies.Resolve(ref, p.bundle.Path, p.engine.settings.StrictResolution)
		p.refFailures[name] = err
		return err
	}
	return nil
}

func (p *pass) checkCancelled() error {
	if p.ctx == nil {
		return nil
	}
	if err := p.ctx.Err(); err != nil {
		return errors.Mark(errors.Wrap(err, "translation cancelled"), errors.ErrCancelled)
	}
	return nil
}

func (p *pass) emit(e Event) {
	e.Platform = p.c.Platform
	e.RunID = p.res.RunID
	if !p.engine.settings.Interest.Allows(e) {
		return
	}
	for _, o := range p.observers {
		o(e)
	}
}

// references lists the type references a node's signature depends on.
func references(node model.Node) []metadata.TypeRef {
	var out []metadata.TypeRef
	var add func(r *metadata.TypeRef)
	add = func(r *metadata.TypeRef) {
		if r == nil || r.GenericParameter {
			return
		}
		out = append(out, *r)
		for i := range r.Arguments {
			add(&r.Arguments[i])
		}
	}
	switch n := node.(type) {
	case *model.Kind:
		add(n.BaseType())
		for _, i := range n.Interfaces() {
			add(&i)
		}
	case *model.Field:
		add(&n.Def.Type)
	case *model.Property:
		add(&n.Def.Type)
	case *model.Event:
		add(&n.Def.Type)
	case *model.Method:
		add(n.Def.ReturnType)
		for i := range n.Def.Params {
			add(&n.Def.Params[i].Type)
		}
	}
	return out
}
