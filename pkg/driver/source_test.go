package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commit(t *testing.T, repo *git.Repository, msg string, paths ...string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for _, p := range paths {
		if _, err := worktree.Add(p); err != nil {
			t.Fatalf("stage %s: %v", p, err)
		}
	}
	hash, err := worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Core CLI",
			Email: "core@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestFetchGitFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "progs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "progs", "main.core")
	writeFile(t, path, "procedure p is begin print(1); end")
	first := commit(t, repo, "first", "progs/main.core")
	writeFile(t, path, "procedure p is begin print(2); end")
	second := commit(t, repo, "second", "progs/main.core")

	ctx := context.Background()
	contents, commit, err := FetchGitFile(ctx, dir, "", "progs/main.core")
	if err != nil {
		t.Fatalf("FetchGitFile HEAD: %v", err)
	}
	if commit != second || !strings.Contains(string(contents), "print(2)") {
		t.Fatalf("HEAD fetch = %q at %s, want print(2) at %s", contents, commit, second)
	}

	contents, commit, err = FetchGitFile(ctx, dir, first, "progs/main.core")
	if err != nil {
		t.Fatalf("FetchGitFile first: %v", err)
	}
	if commit != first || !strings.Contains(string(contents), "print(1)") {
		t.Fatalf("pinned fetch = %q at %s, want print(1) at %s", contents, commit, first)
	}

	if _, _, err := FetchGitFile(ctx, dir, "", "missing.core"); err == nil {
		t.Fatalf("missing file fetched")
	}
	if _, _, err := FetchGitFile(ctx, "", "", "x"); err == nil {
		t.Fatalf("empty url accepted")
	}
}

func TestManifestLoadsGitSource(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	writeFile(t, filepath.Join(repoDir, "prog.core"), "procedure p is begin print(3); end")
	hash := commit(t, repo, "init", "prog.core")

	m := &Manifest{Name: "remote", Source: &GitSource{Git: repoDir, Path: "prog.core"}}
	label, src, err := m.LoadSource(context.Background())
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if want := repoDir + "@" + hash[:12] + ":prog.core"; label != want {
		t.Fatalf("label = %q, want %q", label, want)
	}
	if !strings.Contains(string(src), "print(3)") {
		t.Fatalf("source = %q", src)
	}
}
