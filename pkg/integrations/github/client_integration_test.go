//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
)

func TestRepoLicense_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(cache.NewNullCache(), token, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		owner, repo string
		want        string
	}{
		{"pallets", "flask", "BSD-3-Clause"},
		{"spf13", "cobra", "Apache-2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.owner+"/"+tt.repo, func(t *testing.T) {
			lic, err := client.RepoLicense(ctx, tt.owner, tt.repo, false)
			if err != nil {
				t.Fatalf("RepoLicense() error: %v", err)
			}
			if lic.SPDXID != tt.want {
				t.Errorf("SPDXID = %s, want %s", lic.SPDXID, tt.want)
			}
		})
	}
}
