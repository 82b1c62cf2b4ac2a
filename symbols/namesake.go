// Package symbols reconciles the static object model with the live view of
// an assembly, resolves referenced assemblies that default lookup misses,
// and decides between short and qualified display names.
package symbols

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
	"github.com/teranos/xlat/metadata"
	"github.com/teranos/xlat/metadata/live"
	"github.com/teranos/xlat/model"
)

const defaultCacheSize = 4096

// NormalizeName maps both nested separators to '+'.
func NormalizeName(fullName string) string {
	return strings.ReplaceAll(fullName, metadata.NestedSeparator, live.NestedSeparator)
}

// Signature is the part of a member identity compared by namesake matching.
type Signature struct {
	Name         string
	Kind         live.MemberKind
	Params       []live.TypeInfo
	Return       *live.TypeInfo
	GenericArity int
}

// SignatureOf returns the signature of a static member.
func SignatureOf(m model.Member) Signature {
	switch n := m.(type) {
	case *model.Field:
		return Signature{Name: n.Def.Name, Kind: live.FieldMember, Return: live.TypeInfoOf(&n.Def.Type)}
	case *model.Property:
		return Signature{Name: n.Def.Name, Kind: live.PropertyMember, Return: live.TypeInfoOf(&n.Def.Type)}
	case *model.Event:
		return Signature{Name: n.Def.Name, Kind: live.EventMember, Return: live.TypeInfoOf(&n.Def.Type)}
	case *model.Method:
		s := Signature{Name: n.Def.Name, Kind: live.MethodMember, GenericArity: n.GenericArity()}
		if n.Def.IsConstructor() {
			s.Kind = live.ConstructorMember
		} else {
			s.Return = live.TypeInfoOf(n.Def.ReturnType)
		}
		for i := range n.Def.Params {
			s.Params = append(s.Params, *live.TypeInfoOf(&n.Def.Params[i].Type))
		}
		return s
	}
	return Signature{Name: m.Name()}
}

// LiveSignature returns the signature of a live member.
func LiveSignature(m *live.Member) Signature {
	s := Signature{Name: m.Name, Kind: m.Kind, Return: m.ReturnType, GenericArity: m.GenericArity}
	for _, p := range m.Params {
		s.Params = append(s.Params, p.Type)
	}
	return s
}

// Matches reports whether two signatures denote the same member. Generic
// and nested parameter types are left out of the comparison.
func (s Signature) Matches(o Signature) bool {
	if s.Name != o.Name || s.Kind != o.Kind {
		return false
	}
	if len(s.Params) != len(o.Params) || s.GenericArity != o.GenericArity {
		return false
	}
	for i := range s.Params {
		if !sameType(&s.Params[i], &o.Params[i]) {
			return false
		}
	}
	if s.Kind == live.MethodMember {
		return sameType(s.Return, o.Return)
	}
	return true
}

func sameType(a, b *live.TypeInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsGenericParameter || b.IsGenericParameter || a.IsNested || b.IsNested {
		return true
	}
	return a.Name == b.Name && a.Namespace == b.Namespace
}

// Matcher finds namesakes between a bundle and the live view of a second
// assembly. Lookups are memoized until Reset.
type Matcher struct {
	bundle   *model.Bundle
	namesake *live.Assembly

	kinds       *lru.Cache[*model.Kind, *live.Type]
	members     *lru.Cache[model.Member, *live.Member]
	liveKinds   *lru.Cache[*live.Type, *model.Kind]
	liveMembers *lru.Cache[*live.Member, model.Member]

	logger *zap.SugaredLogger
}

// NewMatcher creates a matcher between bundle and namesake.
func NewMatcher(bundle *model.Bundle, namesake *live.Assembly, log *zap.SugaredLogger) (*Matcher, error) {
	if log == nil {
		log = logger.ComponentLogger("symbols")
	}
	m := &Matcher{bundle: bundle, namesake: namesake, logger: log}
	var err error
	if m.kinds, err = lru.New[*model.Kind, *live.Type](defaultCacheSize); err != nil {
		return nil, errors.Wrap(err, "failed to create namesake cache")
	}
	if m.members, err = lru.New[model.Member, *live.Member](defaultCacheSize); err != nil {
		return nil, errors.Wrap(err, "failed to create namesake cache")
	}
	if m.liveKinds, err = lru.New[*live.Type, *model.Kind](defaultCacheSize); err != nil {
		return nil, errors.Wrap(err, "failed to create namesake cache")
	}
	if m.liveMembers, err = lru.New[*live.Member, model.Member](defaultCacheSize); err != nil {
		return nil, errors.Wrap(err, "failed to create namesake cache")
	}
	return m, nil
}

// Reset drops every memoized match.
func (m *Matcher) Reset() {
	m.kinds.Purge()
	m.members.Purge()
	m.liveKinds.Purge()
	m.liveMembers.Purge()
}

// MatchKind returns the live namesake of a static Kind.
func (m *Matcher) MatchKind(k *model.Kind) (*live.Type, bool) {
	if k == nil || k.IsPlaceHolderGenericParameter || m.namesake == nil {
		return nil, false
	}
	if t, ok := m.kinds.Get(k); ok {
		return t, t != nil
	}
	want := NormalizeName(k.FullName())
	var found *live.Type
	for _, t := range m.namesake.Types() {
		if NormalizeName(t.FullName()) == want {
			found = t
			break
		}
	}
	if found == nil {
		m.logger.Debugw("no namesake type", logger.FieldNode, k.FullName())
	}
	m.kinds.Add(k, found)
	return found, found != nil
}

// MatchMember returns the live namesake of a static member: the first
// declared member of the namesake type with a matching signature.
func (m *Matcher) MatchMember(member model.Member) (*live.Member, bool) {
	if lm, ok := m.members.Get(member); ok {
		return lm, lm != nil
	}
	var found *live.Member
	if t, ok := m.MatchKind(member.Owner()); ok {
		sig := SignatureOf(member)
		for _, candidate := range t.DeclaredMembers() {
			if sig.Matches(LiveSignature(candidate)) {
				found = candidate
				break
			}
		}
	}
	m.members.Add(member, found)
	return found, found != nil
}

// MatchLiveType returns the static Kind matching a live type.
func (m *Matcher) MatchLiveType(t *live.Type) (*model.Kind, bool) {
	if k, ok := m.liveKinds.Get(t); ok {
		return k, k != nil
	}
	want := NormalizeName(t.FullName())
	var found *model.Kind
	for _, k := range m.bundle.Kinds() {
		if NormalizeName(k.FullName()) == want {
			found = k
			break
		}
	}
	m.liveKinds.Add(t, found)
	return found, found != nil
}

// MatchLiveMember returns the static member matching a live member.
func (m *Matcher) MatchLiveMember(lm *live.Member) (model.Member, bool) {
	if member, ok := m.liveMembers.Get(lm); ok {
		return member, member != nil
	}
	var found model.Member
	if k, ok := m.MatchLiveType(lm.DeclaringType()); ok {
		sig := LiveSignature(lm)
		for _, candidate := range k.Members() {
			if sig.Matches(SignatureOf(candidate)) {
				found = candidate
				break
			}
		}
	}
	m.liveMembers.Add(lm, found)
	return found, found != nil
}

// NamesakeDirectives returns the directives attached to the namesake of
// node, or nil when it has none.
func (m *Matcher) NamesakeDirectives(node model.Node) []metadata.Directive {
	switch n := node.(type) {
	case *model.Kind:
		if t, ok := m.MatchKind(n); ok {
			return t.Directives
		}
	case model.Member:
		if lm, ok := m.MatchMember(n); ok {
			return lm.Directives
		}
	}
	return nil
}
