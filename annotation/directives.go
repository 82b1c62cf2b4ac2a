// Package annotation folds platform-scoped override directives onto raw
// metadata and produces the effective definition of a node.
package annotation

import (
	"regexp"
	"strings"

	"github.com/teranos/xlat/metadata"
)

// Directive kinds understood by the resolver.
const (
	KindName       = "name"
	KindAccess     = "access"
	KindModifier   = "modifier"
	KindBase       = "base"
	KindImplements = "implements"
	KindImport     = "import"
	KindPreBody    = "prebody"
	KindCode       = "code"
	KindPostBody   = "postbody"
	KindParameters = "parameters"
	KindGenerics   = "generics"
	KindExtends    = "extends"
	KindHide       = "hide"
	KindShow       = "show"
)

var knownKinds = map[string]bool{
	KindName: true, KindAccess: true, KindModifier: true, KindBase: true,
	KindImplements: true, KindImport: true, KindPreBody: true, KindCode: true,
	KindPostBody: true, KindParameters: true, KindGenerics: true, KindExtends: true,
	KindHide: true, KindShow: true,
}

// multiValued kinds accumulate every selected directive in declaration order.
var multiValued = map[string]bool{
	KindModifier:   true,
	KindImplements: true,
	KindImport:     true,
	KindPreBody:    true,
	KindCode:       true,
	KindPostBody:   true,
	KindExtends:    true,
}

var platformPattern = regexp.MustCompile(`^(\*|[a-z0-9][a-z0-9._-]*)$`)

// IsKnown reports whether kind is part of the directive vocabulary.
func IsKnown(kind string) bool {
	return knownKinds[kind]
}

// IsMultiValued reports whether several directives of kind combine.
func IsMultiValued(kind string) bool {
	return multiValued[kind]
}

// requiresValue reports whether a directive of kind is meaningless without a value.
func requiresValue(kind string) bool {
	return kind != KindHide && kind != KindShow
}

// NormalizePlatform lowercases a requested platform; empty means wildcard.
func NormalizePlatform(platform string) string {
	p := strings.ToLower(strings.TrimSpace(platform))
	if p == "" {
		return metadata.Wildcard
	}
	return p
}

// ValidPlatform reports whether p is "*" or a lowercase platform token.
func ValidPlatform(p string) bool {
	return platformPattern.MatchString(p)
}

// Select returns the directives of kind that apply to platform: those
// naming the platform exactly if there are any, otherwise the wildcard ones.
// Declaration order is preserved.
func Select(dirs []metadata.Directive, kind, platform string) []metadata.Directive {
	platform = NormalizePlatform(platform)
	var exact, wild []metadata.Directive
	for _, d := range dirs {
		if d.Kind != kind {
			continue
		}
		switch d.PlatformPattern() {
		case platform:
			exact = append(exact, d)
		case metadata.Wildcard:
			wild = append(wild, d)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return wild
}

// First returns the value of the first selected directive of kind.
func First(dirs []metadata.Directive, kind, platform string) (string, bool) {
	sel := Select(dirs, kind, platform)
	if len(sel) == 0 {
		return "", false
	}
	return sel[0].Value, true
}

// Values returns the values of every selected directive of kind.
func Values(dirs []metadata.Directive, kind, platform string) []string {
	sel := Select(dirs, kind, platform)
	if len(sel) == 0 {
		return nil
	}
	out := make([]string, len(sel))
	for i, d := range sel {
		out[i] = d.Value
	}
	return out
}

// Specificity ranks how closely a directive targets platform:
// 2 for an exact token, 1 for the wildcard, 0 for no match.
func Specificity(d metadata.Directive, platform string) int {
	platform = NormalizePlatform(platform)
	p := d.PlatformPattern()
	switch {
	case p == platform && p != metadata.Wildcard:
		return 2
	case p == metadata.Wildcard:
		return 1
	default:
		return 0
	}
}

func maxSpecificity(dirs []metadata.Directive, kind, platform string) int {
	best := 0
	for _, d := range dirs {
		if d.Kind != kind {
			continue
		}
		if s := Specificity(d, platform); s > best {
			best = s
		}
	}
	return best
}

// Visible reports whether a node carrying dirs is shown on platform. A
// matching hide wins unless a strictly more specific show exists.
func Visible(dirs []metadata.Directive, platform string) bool {
	hide := maxSpecificity(dirs, KindHide, platform)
	if hide == 0 {
		return true
	}
	return maxSpecificity(dirs, KindShow, platform) > hide
}
