package engine

import (
	"github.com/teranos/xlat/model"
)

// Translator is a concrete back end. Each Translate method handles one
// node kind; a returned error fails that node only and skips its subtree.
// Side effects go through the Context request methods.
type Translator interface {
	// Configure is called exactly once, before any translation call.
	Configure(settings Settings) error

	TranslateBundle(ctx *Context, b *model.Bundle) (Artifact, error)
	TranslatePackage(ctx *Context, p *model.Package) (Artifact, error)
	TranslateKind(ctx *Context, k *model.Kind) (Artifact, error)
	TranslateField(ctx *Context, f *model.Field) (Artifact, error)
	TranslateMethod(ctx *Context, m *model.Method) (Artifact, error)
	TranslateProperty(ctx *Context, p *model.Property) (Artifact, error)
	TranslateEvent(ctx *Context, e *model.Event) (Artifact, error)
	TranslateIL(ctx *Context, el model.ILElement) (Artifact, error)
}

// Closer is implemented by translators that emit text after a node's
// subtree, such as closing braces. Close runs only when the node itself
// translated successfully.
type Closer interface {
	Close(ctx *Context, node model.Node) error
}

// BaseTranslator implements Translator with no-ops. Embed it and override
// what the back end needs.
type BaseTranslator struct {
	Settings Settings
}

func (b *BaseTranslator) Configure(settings Settings) error {
	b.Settings = settings
	return nil
}

func (b *BaseTranslator) TranslateBundle(*Context, *model.Bundle) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslatePackage(*Context, *model.Package) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslateKind(*Context, *model.Kind) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslateField(*Context, *model.Field) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslateMethod(*Context, *model.Method) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslateProperty(*Context, *model.Property) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslateEvent(*Context, *model.Event) (Artifact, error) { return nil, nil }
func (b *BaseTranslator) TranslateIL(*Context, model.ILElement) (Artifact, error) { return nil, nil }
