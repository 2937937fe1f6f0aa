package driver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// FetchGitFile clones url into memory, checks out rev (HEAD when empty) and
// returns the contents of path together with the resolved commit hash.
func FetchGitFile(ctx context.Context, url, rev, path string) ([]byte, string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, "", fmt.Errorf("git: url required")
	}
	revision := strings.TrimSpace(rev)
	if revision == "" {
		revision = "HEAD"
	}

	fs := memfs.New()
	repo, err := git.CloneContext(ctx, memory.NewStorage(), fs, &git.CloneOptions{URL: url})
	if err != nil {
		return nil, "", fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return nil, "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	file, err := fs.Open(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, "", fmt.Errorf("git: %s@%s: %w", url, revision, err)
	}
	defer file.Close()
	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("git: read %s: %w", path, err)
	}
	return contents, hash.String(), nil
}
