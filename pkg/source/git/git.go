// Package git fetches remote repositories for scanning.
//
// [Clone] makes a single-branch clone into a fresh temporary directory,
// shallow (depth 1) for network remotes. The caller owns the returned [Checkout] and must Close it,
// which removes the directory.
package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/matzehuels/feluda/pkg/errors"
)

// Options configures Clone.
type Options struct {
	Ref      string    // branch or tag; the remote HEAD when empty
	Token    string    // HTTP basic auth password (GitHub token) when set
	Progress io.Writer // clone progress output, or nil
	TempDir  string    // parent of the checkout; os.TempDir() when empty
}

// Checkout is a cloned working tree on local disk.
type Checkout struct {
	Dir string
	URL string
}

// Close removes the working tree.
func (c *Checkout) Close() error {
	if c == nil || c.Dir == "" {
		return nil
	}
	return os.RemoveAll(c.Dir)
}

// Clone shallow-clones repo (a URL, or owner/repo on GitHub). On failure
// the temporary directory is removed and a CLONE_ERROR is returned.
func Clone(ctx context.Context, repo string, opts Options) (*Checkout, error) {
	url, err := CloneURL(repo)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeClone, err, "invalid repository")
	}

	dir, err := os.MkdirTemp(opts.TempDir, "feluda-clone-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeClone, err, "create temp dir")
	}

	co := &gogit.CloneOptions{
		URL:          url,
		SingleBranch: true,
		Tags:         gogit.NoTags,
		Progress:     opts.Progress,
	}
	if !strings.HasPrefix(url, "file://") {
		co.Depth = 1
	}
	if opts.Ref != "" {
		co.ReferenceName = refName(opts.Ref)
	}
	if opts.Token != "" {
		co.Auth = &http.BasicAuth{Username: "x-access-token", Password: opts.Token}
	}

	if _, err := gogit.PlainCloneContext(ctx, dir, false, co); err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.Wrap(errors.ErrCodeClone, err, "clone %s", url)
	}
	return &Checkout{Dir: dir, URL: url}, nil
}

// CloneURL expands owner/repo to a GitHub HTTPS URL and passes URLs
// with a supported scheme through.
func CloneURL(repo string) (string, error) {
	s := strings.TrimSpace(repo)
	if s == "" {
		return "", fmt.Errorf("empty repository")
	}
	for _, scheme := range []string{"http://", "https://", "ssh://", "git://", "file://"} {
		if strings.HasPrefix(s, scheme) {
			return s, nil
		}
	}
	if strings.HasPrefix(s, "git@") {
		return s, nil
	}
	if strings.Contains(s, "://") {
		return "", fmt.Errorf("unsupported repository URL scheme: %s", s)
	}
	s = strings.TrimPrefix(s, "github.com/")
	parts := strings.Split(strings.TrimSuffix(s, ".git"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("expected owner/repo or a URL, got %q", repo)
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", parts[0], parts[1]), nil
}

func refName(ref string) plumbing.ReferenceName {
	if strings.HasPrefix(ref, "refs/") {
		return plumbing.ReferenceName(ref)
	}
	if strings.HasPrefix(ref, "v") && strings.ContainsAny(ref, "0123456789") {
		return plumbing.NewTagReferenceName(ref)
	}
	return plumbing.NewBranchReferenceName(ref)
}
