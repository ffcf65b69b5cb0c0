package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/feluda/pkg/errors"
)

func TestCloneURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "kev/feluda", want: "https://github.com/kev/feluda.git"},
		{in: "github.com/kev/feluda.git", want: "https://github.com/kev/feluda.git"},
		{in: "https://gitlab.com/a/b.git", want: "https://gitlab.com/a/b.git"},
		{in: "git@github.com:a/b.git", want: "git@github.com:a/b.git"},
		{in: "file:///tmp/repo", want: "file:///tmp/repo"},
		{in: "ftp://example.com/repo", wantErr: true},
		{in: "just-a-name", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CloneURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefName(t *testing.T) {
	assert.Equal(t, "refs/heads/main", refName("main").String())
	assert.Equal(t, "refs/tags/v1.2.0", refName("v1.2.0").String())
	assert.Equal(t, "refs/heads/release", refName("refs/heads/release").String())
}

func TestCloneFileURL(t *testing.T) {
	src := initTestRepo(t)
	parent := t.TempDir()

	co, err := Clone(context.Background(), "file://"+src, Options{TempDir: parent})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(co.Dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "left-pad")

	require.NoError(t, co.Close())
	_, err = os.Stat(co.Dir)
	assert.True(t, os.IsNotExist(err), "checkout should be removed")
	assert.NoError(t, co.Close(), "Close is idempotent")
}

func TestCloneFailureCleansUp(t *testing.T) {
	parent := t.TempDir()

	_, err := Clone(context.Background(), "file://"+filepath.Join(parent, "missing"), Options{TempDir: parent})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeClone, errors.GetCode(err))

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp dir should be removed after a failed clone")
}

func initTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"dependencies":{"left-pad":"1.3.0"}}`), 0o644))
	_, err = wt.Add("package.json")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "feluda", Email: "ci@feluda.dev", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}
