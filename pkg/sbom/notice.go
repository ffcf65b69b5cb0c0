package sbom

import (
	"fmt"
	"slices"
	"strings"
)

// Notice renders third-party attribution text: components grouped by
// license, licenses in alphabetical order with unknown ones last.
func Notice(doc Document) string {
	groups := make(map[string][]Component)
	for _, c := range doc.Components {
		key := c.License
		if key == NoAssertion {
			key = "Unknown"
		}
		groups[key] = append(groups[key], c)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if (a == "Unknown") != (b == "Unknown") {
			if a == "Unknown" {
				return 1
			}
			return -1
		}
		return strings.Compare(a, b)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "THIRD-PARTY SOFTWARE NOTICES\n\n")
	fmt.Fprintf(&b, "%s includes the following third-party components.\n", doc.Name)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s\n%s\n", k, strings.Repeat("-", len(k)))
		for _, c := range groups[k] {
			if c.Version != "" {
				fmt.Fprintf(&b, "  %s %s\n", c.Name, c.Version)
			} else {
				fmt.Fprintf(&b, "  %s\n", c.Name)
			}
		}
	}
	return b.String()
}
