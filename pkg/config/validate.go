package config

import (
	"fmt"
	"strings"

	"github.com/matzehuels/feluda/pkg/licenses"
)

// Warning is a configuration value problem that does not stop a scan.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

// Validate reports value problems. Structural problems are caught by
// [Load]; these are only worth a warning.
func (c *Config) Validate() []Warning {
	var ws []Warning
	ws = append(ws, checkLicenseList("licenses.restrictive", c.Licenses.Restrictive)...)
	ws = append(ws, checkLicenseList("licenses.ignore", c.Licenses.Ignore)...)

	for _, l := range c.Licenses.Restrictive {
		if l != "" && containsLicense(c.Licenses.Ignore, l) {
			ws = append(ws, Warning{
				Field:   "licenses",
				Message: fmt.Sprintf("%q is both restrictive and ignored; it will be ignored", l),
			})
		}
	}

	seen := make(map[IgnoreRule]bool)
	for i, r := range c.Dependencies.Ignore {
		field := fmt.Sprintf("dependencies.ignore[%d]", i)
		if strings.TrimSpace(r.Name) == "" {
			ws = append(ws, Warning{Field: field, Message: "empty dependency name"})
			continue
		}
		key := IgnoreRule{Name: r.Name, Version: r.Version}
		if seen[key] {
			ws = append(ws, Warning{Field: field, Message: fmt.Sprintf("duplicate entry for %s", describe(r))})
		}
		seen[key] = true
	}

	if c.Dependencies.MaxDepth < 0 {
		ws = append(ws, Warning{Field: "dependencies.max_depth", Message: fmt.Sprintf("negative depth; using the default of %d (0 reports direct dependencies only)", Default().Dependencies.MaxDepth)})
	}
	if c.Scan.Workers < 1 {
		ws = append(ws, Warning{Field: "scan.workers", Message: "must be at least 1; using 1"})
	}
	for _, r := range c.Compatibility {
		if r.License == "" {
			ws = append(ws, Warning{Field: "compatibility", Message: "rule without license is skipped"})
		}
	}
	return ws
}

func checkLicenseList(field string, list []string) []Warning {
	var ws []Warning
	seen := make(map[string]bool)
	for i, l := range list {
		f := fmt.Sprintf("%s[%d]", field, i)
		id := strings.TrimSpace(l)
		switch {
		case id == "":
			ws = append(ws, Warning{Field: f, Message: "empty license identifier"})
			continue
		case !licenses.LooksLikeSPDX(id) && licenses.Normalize(id) == "":
			ws = append(ws, Warning{Field: f, Message: fmt.Sprintf("%q is not a valid license identifier", l)})
		}
		if seen[id] {
			ws = append(ws, Warning{Field: f, Message: fmt.Sprintf("duplicate entry %q", l)})
		}
		seen[id] = true
	}
	return ws
}

func describe(r IgnoreRule) string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "@" + r.Version
}
