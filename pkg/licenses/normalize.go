package licenses

import (
	"regexp"
	"strings"
)

var spdxLike = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+-]*$`)

// LooksLikeSPDX reports whether id has the shape of an SPDX identifier.
func LooksLikeSPDX(id string) bool { return spdxLike.MatchString(id) }

var aliases = map[string]string{
	"MIT":                       "MIT",
	"MIT LICENSE":               "MIT",
	"THE MIT LICENSE":           "MIT",
	"MIT/X11":                   "MIT",
	"EXPAT":                     "MIT",
	"ISC":                       "ISC",
	"ISC LICENSE":               "ISC",
	"ISC LICENSE (ISCL)":        "ISC",
	"0BSD":                      "0BSD",
	"BSD-ZERO-CLAUSE":           "0BSD",
	"BSD ZERO CLAUSE":           "0BSD",
	"ZERO-CLAUSE BSD":           "0BSD",
	"UNLICENSE":                 "Unlicense",
	"THE UNLICENSE":             "Unlicense",
	"THE UNLICENSE (UNLICENSE)": "Unlicense",
	"WTFPL":                     "WTFPL",
	"DO WHAT THE FUCK YOU WANT TO PUBLIC LICENSE": "WTFPL",
	"ZLIB":                                 "Zlib",
	"ZLIB LICENSE":                         "Zlib",
	"ZLIB/LIBPNG LICENSE":                  "Zlib",
	"APACHE2":                              "Apache-2.0",
	"APACHE SOFTWARE LICENSE":              "Apache-2.0",
	"BOOST SOFTWARE LICENSE 1.0 (BSL-1.0)": "BSL-1.0",
	"PYTHON SOFTWARE FOUNDATION LICENSE":   "PSF-2.0",
}

var unknownMarkers = []string{"", "NOASSERTION", "UNKNOWN", "NONE", "NO LICENSE", "UNLICENSED", "PROPRIETARY", "OTHER/PROPRIETARY LICENSE"}

var operatorRE = regexp.MustCompile(`(?i)\s+(?:OR|AND|WITH)\s+|\s*/\s*|\s*\|\s*`)

// Normalize maps a declared license string to a canonical SPDX-style
// identifier. It returns "" when the license is unknown. Compound
// expressions normalize to their first recognizable operand.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	upper := strings.ToUpper(s)
	for _, m := range unknownMarkers {
		if upper == m {
			return ""
		}
	}
	if strings.HasPrefix(upper, "SEE LICENSE IN") || strings.HasPrefix(upper, "SEE LICENSE") {
		return ""
	}

	if operands := splitExpression(s); len(operands) > 1 {
		for _, op := range operands {
			if id := normalizeSingle(op); id != "" {
				return id
			}
		}
		return ""
	}
	return normalizeSingle(s)
}

// splitExpression breaks an SPDX expression into its operands, dropping
// parentheses. "MIT/Apache-2.0" is a common registry shorthand for OR.
func splitExpression(s string) []string {
	s = strings.NewReplacer("(", " ", ")", " ").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range operatorRE.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	// "MIT/X11" is a single license, not an expression.
	if len(out) == 2 && strings.EqualFold(out[0], "MIT") && strings.EqualFold(out[1], "X11") {
		return []string{"MIT"}
	}
	return out
}

func normalizeSingle(raw string) string {
	s := strings.TrimSpace(raw)
	upper := strings.ToUpper(s)
	if id, ok := aliases[upper]; ok {
		return id
	}
	for _, m := range unknownMarkers {
		if upper == m {
			return ""
		}
	}

	switch {
	case strings.Contains(upper, "APACHE") && strings.Contains(upper, "2"):
		return "Apache-2.0"
	case isAGPL(upper) && strings.Contains(upper, "3"):
		return "AGPL-3.0"
	case isLGPL(upper) && strings.Contains(upper, "3"):
		return "LGPL-3.0"
	case isLGPL(upper) && strings.Contains(upper, "2"):
		return "LGPL-2.1"
	case isGPL(upper) && strings.Contains(upper, "3"):
		return "GPL-3.0"
	case isGPL(upper) && strings.Contains(upper, "2"):
		return "GPL-2.0"
	case strings.Contains(upper, "MPL") && strings.Contains(upper, "2"),
		strings.Contains(upper, "MOZILLA PUBLIC") && strings.Contains(upper, "2"):
		return "MPL-2.0"
	case strings.Contains(upper, "BSD") && (strings.Contains(upper, "3") || strings.Contains(upper, "THREE")):
		return "BSD-3-Clause"
	case strings.Contains(upper, "BSD") && (strings.Contains(upper, "2") || strings.Contains(upper, "TWO")):
		return "BSD-2-Clause"
	}

	folded := foldSuffix(s)
	if id, ok := aliases[strings.ToUpper(folded)]; ok {
		return id
	}
	if LooksLikeSPDX(folded) {
		return folded
	}
	return ""
}

func isAGPL(upper string) bool {
	return strings.Contains(upper, "AGPL") || strings.Contains(upper, "AFFERO")
}

func isLGPL(upper string) bool {
	return strings.Contains(upper, "LGPL") ||
		strings.Contains(upper, "LESSER GENERAL PUBLIC") ||
		strings.Contains(upper, "LIBRARY GENERAL PUBLIC")
}

func isGPL(upper string) bool {
	return strings.Contains(upper, "GPL") || strings.Contains(upper, "GENERAL PUBLIC LICENSE")
}

// foldSuffix drops the SPDX -only / -or-later / + markers.
func foldSuffix(s string) string {
	for _, suffix := range []string{"-only", "-or-later", "+"} {
		if len(s) > len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
			return s[:len(s)-len(suffix)]
		}
	}
	return s
}
