package annotation

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/model"
)

// TypeChecker reports whether a type named by a directive can be resolved.
type TypeChecker interface {
	HasType(fullName string) bool
}

// TypeCheckerFunc adapts a function to TypeChecker.
type TypeCheckerFunc func(fullName string) bool

func (f TypeCheckerFunc) HasType(fullName string) bool { return f(fullName) }

// NamesakeSource supplies directives attached to a node's namesake in a
// second assembly.
type NamesakeSource interface {
	NamesakeDirectives(node model.Node) []metadata.Directive
}

// Constraint lists the declared constraints of one generic parameter.
type Constraint struct {
	Parameter     string
	MustExtend    []string
	MustImplement []string
}

// Definition is the effective shape of a node on one platform.
type Definition struct {
	Node     model.Node
	Platform string

	Name       string
	Access     string
	Modifiers  []string
	BaseType   string
	Interfaces []string
	Imports    []string

	// PreBody, Code and PostBody join every selected fragment with a newline.
	PreBody  string
	Code     string
	PostBody string

	// Parameters and Generics replace the emitted parameter and generic
	// sections when set.
	Parameters string
	Generics   string

	Visible     bool
	Constraints []Constraint
}

// HasModifier reports whether the effective modifiers contain m.
func (d *Definition) HasModifier(m string) bool {
	return metadata.HasModifier(d.Modifiers, m)
}

// ResolutionError reports malformed directives on a node. The definition
// returned alongside it is built from the well-formed directives.
type ResolutionError struct {
	Node     model.Node
	Platform string
	Problems []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s for platform %s: %s", e.Node.FullName(), e.Platform, strings.Join(e.Problems, "; "))
}

func (e *ResolutionError) Unwrap() error {
	return errors.ErrResolution
}

type cacheKey struct {
	node        model.Node
	platform    string
	defaultOnly bool
}

type cacheEntry struct {
	def *Definition
	err error
}

// Resolver computes and memoizes effective definitions. Memoized entries
// are never evicted, so a Resolver should live no longer than one run.
type Resolver struct {
	checker     TypeChecker
	namesakes   NamesakeSource
	defaultOnly bool
	logger      *zap.SugaredLogger

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTypeChecker validates type names named by base, implements and extends directives.
func WithTypeChecker(c TypeChecker) Option {
	return func(r *Resolver) { r.checker = c }
}

// WithNamesakes appends namesake directives after a node's own.
func WithNamesakes(s NamesakeSource) Option {
	return func(r *Resolver) { r.namesakes = s }
}

// WithDefaultOnly ignores every directive.
func WithDefaultOnly(on bool) Option {
	return func(r *Resolver) { r.defaultOnly = on }
}

// WithLogger injects a logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{cache: make(map[cacheKey]cacheEntry)}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.ComponentLogger("annotation")
	}
	return r
}

// DefaultOnly reports whether directives are ignored.
func (r *Resolver) DefaultOnly() bool {
	return r.defaultOnly
}

// Reset drops every memoized definition.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

// Resolve returns the effective definition of node for platform. Repeated
// calls return the same definition until Reset. A *ResolutionError is
// returned together with a usable definition when directives are malformed.
func (r *Resolver) Resolve(node model.Node, platform string) (*Definition, error) {
	key := cacheKey{node: node, platform: NormalizePlatform(platform), defaultOnly: r.defaultOnly}
	if e, ok := r.lookup(key); ok {
		return e.def, e.err
	}

	// resolve recurses into generic placeholders, so the lock is not held here.
	def, problems := r.resolve(node, key.platform)
	var err error
	if len(problems) > 0 {
		err = &ResolutionError{Node: node, Platform: key.platform, Problems: problems}
		r.logger.Debugw("directives rejected",
			logger.FieldNode, node.FullName(),
			logger.FieldPlatform, key.platform,
			logger.FieldCount, len(problems))
	}
	e := r.store(key, cacheEntry{def: def, err: err})
	return e.def, e.err
}

func (r *Resolver) lookup(key cacheKey) (cacheEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache[key]
	return e, ok
}

// store keeps the first entry recorded for key.
func (r *Resolver) store(key cacheKey, e cacheEntry) cacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.cache[key]; ok {
		return prev
	}
	r.cache[key] = e
	return e
}

// IsVisible is a shorthand for the Visible field of the definition.
func (r *Resolver) IsVisible(node model.Node, platform string) bool {
	def, _ := r.Resolve(node, platform)
	return def.Visible
}

// EffectiveName is a shorthand for the Name field of the definition.
func (r *Resolver) EffectiveName(node model.Node, platform string) string {
	def, _ := r.Resolve(node, platform)
	return def.Name
}

func (r *Resolver) resolve(node model.Node, platform string) (*Definition, []string) {
	def := rawDefinition(node)
	def.Node = node
	def.Platform = platform
	def.Visible = true

	var problems []string
	if !r.defaultOnly {
		dirs, bad := r.directives(node)
		problems = append(problems, bad...)
		problems = append(problems, r.apply(def, dirs, platform)...)
	}

	for _, gp := range genericParameters(node) {
		pdef, err := r.Resolve(gp, platform)
		var rerr *ResolutionError
		if errors.As(err, &rerr) {
			for _, p := range rerr.Problems {
				problems = append(problems, gp.Name()+": "+p)
			}
		}
		def.Constraints = append(def.Constraints, pdef.Constraints...)
	}
	return def, problems
}

// directives returns the well-formed directives of node, namesake ones last.
func (r *Resolver) directives(node model.Node) ([]metadata.Directive, []string) {
	all := node.Directives()
	if r.namesakes != nil {
		if extra := r.namesakes.NamesakeDirectives(node); len(extra) > 0 {
			all = append(append([]metadata.Directive(nil), all...), extra...)
		}
	}

	var ok []metadata.Directive
	var problems []string
	for _, d := range all {
		switch {
		case !IsKnown(d.Kind):
			problems = append(problems, fmt.Sprintf("unknown directive kind %q", d.Kind))
		case !ValidPlatform(d.PlatformPattern()):
			problems = append(problems, fmt.Sprintf("directive %s: malformed platform %q", d.Kind, d.Platform))
		case requiresValue(d.Kind) && strings.TrimSpace(d.Value) == "":
			problems = append(problems, fmt.Sprintf("directive %s requires a value", d.Kind))
		default:
			ok = append(ok, d)
		}
	}
	return ok, problems
}

func (r *Resolver) apply(def *Definition, dirs []metadata.Directive, platform string) []string {
	var problems []string
	checked := func(kind string, values []string) []string {
		if r.checker == nil {
			return values
		}
		var out []string
		for _, v := range values {
			if r.checker.HasType(v) {
				out = append(out, v)
				continue
			}
			problems = append(problems, fmt.Sprintf("directive %s: unresolvable type %q", kind, v))
		}
		return out
	}

	if v, ok := First(dirs, KindName, platform); ok {
		def.Name = v
	}
	if v, ok := First(dirs, KindAccess, platform); ok {
		def.Access = v
	}
	for _, m := range Values(dirs, KindModifier, platform) {
		if !metadata.HasModifier(def.Modifiers, m) {
			def.Modifiers = append(def.Modifiers, m)
		}
	}
	if v, ok := First(dirs, KindBase, platform); ok {
		if c := checked(KindBase, []string{v}); len(c) == 1 {
			def.BaseType = c[0]
		}
	}
	def.Interfaces = append(def.Interfaces, checked(KindImplements, Values(dirs, KindImplements, platform))...)
	def.Imports = append(def.Imports, Values(dirs, KindImport, platform)...)
	def.PreBody = strings.Join(Values(dirs, KindPreBody, platform), "\n")
	def.Code = strings.Join(Values(dirs, KindCode, platform), "\n")
	def.PostBody = strings.Join(Values(dirs, KindPostBody, platform), "\n")
	if v, ok := First(dirs, KindParameters, platform); ok {
		def.Parameters = v
	}
	if v, ok := First(dirs, KindGenerics, platform); ok {
		def.Generics = v
	}
	extends := checked(KindExtends, Values(dirs, KindExtends, platform))
	def.Visible = Visible(dirs, platform)

	if k, ok := def.Node.(*model.Kind); ok && k.IsPlaceHolderGenericParameter {
		c := Constraint{Parameter: k.Name(), MustImplement: append([]string(nil), def.Interfaces...)}
		if def.BaseType != "" {
			c.MustExtend = append(c.MustExtend, def.BaseType)
		}
		for _, e := range extends {
			if !contains(c.MustExtend, e) {
				c.MustExtend = append(c.MustExtend, e)
			}
		}
		def.Constraints = []Constraint{c}
	}
	return problems
}

// rawDefinition derives a definition from metadata alone.
func rawDefinition(node model.Node) *Definition {
	def := &Definition{Name: node.Name()}
	switch n := node.(type) {
	case *model.Kind:
		def.Name = n.ShortName()
		if base := n.BaseType(); base != nil {
			def.BaseType = base.FullName()
		}
		for _, i := range n.Interfaces() {
			def.Interfaces = append(def.Interfaces, i.FullName())
		}
		if n.IsPlaceHolderGenericParameter {
			c := Constraint{Parameter: n.Name(), MustImplement: append([]string(nil), def.Interfaces...)}
			if def.BaseType != "" {
				c.MustExtend = []string{def.BaseType}
			}
			def.Constraints = []Constraint{c}
			break
		}
		def.Access = n.Def.Access
		def.Modifiers = append([]string(nil), n.Def.Modifiers...)
	case *model.Field:
		def.Access = n.Def.Access
		def.Modifiers = append([]string(nil), n.Def.Modifiers...)
	case *model.Method:
		def.Access = n.Def.Access
		def.Modifiers = append([]string(nil), n.Def.Modifiers...)
	case *model.Property:
		def.Access = n.Def.Access
		def.Modifiers = append([]string(nil), n.Def.Modifiers...)
	case *model.Event:
		def.Access = n.Def.Access
		def.Modifiers = append([]string(nil), n.Def.Modifiers...)
	}
	return def
}

func genericParameters(node model.Node) []*model.Kind {
	switch n := node.(type) {
	case *model.Kind:
		return n.GenericParameters
	case *model.Method:
		return n.GenericParameters
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
