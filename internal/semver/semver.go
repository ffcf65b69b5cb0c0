// Package semver resolves declared version requirements against published
// versions. It is a thin wrapper around github.com/Masterminds/semver/v3.
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
type Version struct {
	v *mm.Version
}

// Constraint is a semantic version constraint such as "^1.0.0", "~1.4" or
// ">=1.2.0 <2.0.0".
type Constraint struct {
	c *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{c: c}, nil
}

// String returns the normalized version without a "v" prefix.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Compare compares a and b, returning -1, 0 or 1. A missing version sorts first.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// MaxSatisfying returns the highest version in candidates that satisfies c.
func MaxSatisfying(c Constraint, candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !Satisfies(candidate, c) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}

// Exact reports whether raw pins a single version ("1.2.3", "=1.2.3",
// "v1.2.3", "==1.2.3") and returns it without the operator.
func Exact(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "=")
	s = strings.TrimSpace(s)
	if _, err := mm.StrictNewVersion(strings.TrimPrefix(s, "v")); err != nil {
		return "", false
	}
	return s, true
}

// Resolve picks the version that a requirement selects from the published
// versions. An exact requirement is returned as is; ranges resolve to the
// highest satisfying release. ok is false when nothing matches or the
// requirement cannot be parsed.
func Resolve(requirement string, available []string) (string, bool) {
	if v, ok := Exact(requirement); ok {
		return v, true
	}
	req := strings.TrimSpace(requirement)
	if req == "" || req == "latest" || req == "*" {
		return "", false
	}
	c, err := ParseConstraint(req)
	if err != nil {
		return "", false
	}

	var best Version
	bestRaw := ""
	for _, raw := range available {
		v, err := ParseVersion(raw)
		if err != nil || v.v.Prerelease() != "" || !Satisfies(v, c) {
			continue
		}
		if bestRaw == "" || Compare(v, best) > 0 {
			best, bestRaw = v, raw
		}
	}
	return bestRaw, bestRaw != ""
}

// CompareStrings orders two version strings semantically when both parse
// and lexically otherwise.
func CompareStrings(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	if errA == nil && errB == nil {
		return Compare(va, vb)
	}
	return strings.Compare(a, b)
}
