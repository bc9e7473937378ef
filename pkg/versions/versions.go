// Package versions holds the semver helpers shared by the store, the tool
// families and the CLI listings.
package versions

import (
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Trim strips surrounding whitespace and a leading "v" or "V".
func Trim(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 0 && (v[0] == 'v' || v[0] == 'V') {
		return v[1:]
	}
	return v
}

// Parse parses a version after trimming it.
func Parse(v string) (*goversion.Version, error) {
	return goversion.NewVersion(Trim(v))
}

// Valid reports whether v parses as a semantic version.
func Valid(v string) bool {
	_, err := Parse(v)
	return err == nil
}

// IsPrerelease reports whether v carries a prerelease tag. Unparsable
// versions are not prereleases.
func IsPrerelease(v string) bool {
	pv, err := Parse(v)
	return err == nil && pv.Prerelease() != ""
}

// Less orders a before b by semver. Unparsable names sort after every
// valid version, lexicographically among themselves.
func Less(a, b string) bool {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c < 0
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// Sort orders vs ascending in place.
func Sort(vs []string) {
	sort.SliceStable(vs, func(i, j int) bool { return Less(vs[i], vs[j]) })
}

// Below reports whether v is strictly lower than boundary.
func Below(v string, boundary *goversion.Version) (bool, error) {
	pv, err := Parse(v)
	if err != nil {
		return false, err
	}
	return pv.LessThan(boundary), nil
}
