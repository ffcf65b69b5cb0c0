package errors

import (
	"strings"
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "serde", false},
		{"scoped npm", "@types/node", false},
		{"go module", "github.com/spf13/cobra", false},
		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"double slash", "a//b", true},
		{"backslash", `a\b`, true},
		{"control char", "a\x01b", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateRepoURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://github.com/anistark/feluda", false},
		{"git@github.com:anistark/feluda.git", false},
		{"file:///tmp/repo", false},
		{"anistark/feluda", false},
		{"", true},
		{"ftp://example.com/repo", true},
		{"not a repo", true},
		{"justaname", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if err := ValidateRepoURL(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepoURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLicenseID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"MIT", false},
		{"Apache-2.0", false},
		{"GPL-2.0+", false},
		{"LicenseRef-custom", false},
		{"", true},
		{"   ", true},
		{"MIT OR Apache-2.0", true},
		{"(GPL)", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateLicenseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLicenseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeValidation) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeValidation)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeParse, ErrCodeNetwork, ErrCodeCache, ErrCodeConfig, ErrCodeValidation, ErrCodeClone,
		ErrCodeInvalidInput, ErrCodeInvalidLanguage, ErrCodeInvalidPackage, ErrCodeInvalidPath,
	}
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
