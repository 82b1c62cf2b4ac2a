package engine

import (
	"strings"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/metadata"
)

// Interest selects which lifecycle notifications observers receive.
type Interest int

const (
	// InterestNone delivers nothing.
	InterestNone Interest = iota
	// InterestAll delivers both notifications of every pair.
	InterestAll
	// InterestDoing delivers only Translating.
	InterestDoing
	// InterestDone delivers only Translated.
	InterestDone
	// InterestErrors delivers both but drops successful notifications.
	InterestErrors
)

var interestNames = map[Interest]string{
	InterestNone:   "None",
	InterestAll:    "All",
	InterestDoing:  "Doing",
	InterestDone:   "Done",
	InterestErrors: "Errors",
}

func (i Interest) String() string {
	if s, ok := interestNames[i]; ok {
		return s
	}
	return "Unknown"
}

// ParseInterest parses an interest level name, case-insensitively.
func ParseInterest(s string) (Interest, error) {
	for i, name := range interestNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return i, nil
		}
	}
	return InterestNone, errors.WithHint(
		errors.NewDescriptorError("unknown interest level %q", s),
		"use one of None, All, Doing, Done, Errors")
}

// Allows reports whether e passes the interest filter.
func (i Interest) Allows(e Event) bool {
	switch i {
	case InterestAll:
		return true
	case InterestDoing:
		return e.Phase == Translating
	case InterestDone:
		return e.Phase == Translated
	case InterestErrors:
		return !e.Success
	default:
		return false
	}
}

// Settings is the translation configuration handed to the engine and the translator.
type Settings struct {
	Name             string
	OutputDirectory  string
	TargetPlatforms  []string
	TargetTypes      []string
	Optimize         bool
	ReturnPartial    bool
	UseDefaultOnly   bool
	StrictResolution bool
	Interest         Interest
}

// DefaultSettings returns the settings used when a document leaves fields unset.
func DefaultSettings() Settings {
	return Settings{
		TargetPlatforms: []string{metadata.Wildcard},
		Optimize:        true,
		Interest:        InterestErrors,
	}
}

// Platforms returns the normalized platforms to walk, "*" when none are set.
func (s Settings) Platforms() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.TargetPlatforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			p = metadata.Wildcard
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{metadata.Wildcard}
	}
	return out
}
