//go:build integration

package npm

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
)

func TestFetchPackage_Integration(t *testing.T) {
	client := NewClient(cache.NewNullCache(), time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		pkg     string
		version string
		wantErr bool
	}{
		{"express", "express", "^4.18.0", false},
		{"lodash", "lodash", "", false},
		{"nonexistent", "this-package-should-not-exist-12345", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := client.FetchPackage(ctx, tt.pkg, tt.version, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("FetchPackage(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
				return
			}
			if !tt.wantErr && pkg.License == "" {
				t.Error("license should not be empty")
			}
		})
	}
}
