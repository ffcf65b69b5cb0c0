package licenses

import "strings"

// Evaluate decides whether a dependency license may be included in a
// project under projectLicense. Both arguments are normalized identifiers;
// "" means unknown or undeclared.
//
// Without a project license, or when the project license is not in the
// matrix, the result is NotEvaluated. An unknown dependency license is
// Incompatible in strict mode and NotEvaluated otherwise.
func Evaluate(depLicense, projectLicense string, m Matrix, strict bool) Verdict {
	if projectLicense == "" {
		return NotEvaluated
	}
	if depLicense == "" {
		if strict {
			return Incompatible
		}
		return NotEvaluated
	}
	if !m.Has(projectLicense) {
		return NotEvaluated
	}
	if m.Accepts(projectLicense, depLicense) {
		return Compatible
	}
	return Incompatible
}

// Catalogue exposes license conditions from the license database.
type Catalogue interface {
	// Conditions returns the conditions of the license with the given SPDX
	// id and whether the database knows it.
	Conditions(spdx string) ([]string, bool)
}

// copyleftConditions are the catalogue conditions that make a license
// restrictive.
var copyleftConditions = []string{"disclose-source", "network-use-disclose"}

// Restrictive reports whether license (a normalized id, or the raw string
// when it did not normalize) is restrictive. An empty license is only
// restrictive in strict mode. A license is restrictive when it equals or
// contains an entry of list, or when cat knows it and lists a copyleft
// condition. cat may be nil.
func Restrictive(license string, list []string, cat Catalogue, strict bool) bool {
	if license == "" || strings.EqualFold(license, "No License") {
		return strict
	}
	for _, r := range list {
		if r == "" {
			continue
		}
		if license == r || strings.Contains(license, r) {
			return true
		}
	}
	if cat == nil {
		return false
	}
	if conds, ok := cat.Conditions(license); ok {
		for _, c := range conds {
			for _, cc := range copyleftConditions {
				if c == cc {
					return true
				}
			}
		}
	}
	return false
}
