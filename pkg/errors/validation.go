package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName rejects dependency names that cannot be real package
// identifiers: empty, overlong, control characters or path traversal.
// Names that fail are dropped by the parsers instead of being looked up.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateRepoURL validates the target of a remote scan. It accepts
// http(s), ssh and file URLs, scp-style git@host:path and owner/repo shorthand.
func ValidateRepoURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return New(ErrCodeInvalidInput, "repository URL cannot be empty")
	}
	for _, r := range raw {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "repository URL contains invalid characters")
		}
	}
	switch {
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"),
		strings.HasPrefix(raw, "ssh://"), strings.HasPrefix(raw, "file://"),
		strings.HasPrefix(raw, "git@"):
		return nil
	case strings.Contains(raw, "://"):
		return New(ErrCodeInvalidInput, "unsupported repository URL scheme: %s", raw)
	case shorthandRegex.MatchString(raw):
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid repository: %q (want URL or owner/repo)", raw)
}

var shorthandRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*/[A-Za-z0-9_.-]+$`)

// spdxIDRegex matches a single SPDX-looking identifier such as "MIT",
// "Apache-2.0" or "GPL-2.0+". It does not accept expressions.
var spdxIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+-]*$`)

// ValidateLicenseID reports an error for empty or malformed license identifiers
// in configuration lists.
func ValidateLicenseID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeValidation, "license identifier cannot be empty")
	}
	if !spdxIDRegex.MatchString(id) {
		return New(ErrCodeValidation, "invalid license identifier: %q", id)
	}
	return nil
}
