package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Parse parses a three- or four-part version. Assembly-style versions carry
// a fourth revision component, which is dropped.
func Parse(v string) (*semver.Version, error) {
	v = strings.TrimSpace(v)
	if parts := strings.Split(v, "."); len(parts) == 4 {
		v = strings.Join(parts[:3], ".")
	}
	return semver.NewVersion(v)
}

// Satisfies reports whether have can stand in for want: the same major
// version and not older. An empty want accepts anything.
func Satisfies(have, want string) bool {
	if strings.TrimSpace(want) == "" {
		return true
	}
	h, err := Parse(have)
	if err != nil {
		return false
	}
	w, err := Parse(want)
	if err != nil {
		return false
	}
	return h.Major() == w.Major() && !h.LessThan(w)
}
