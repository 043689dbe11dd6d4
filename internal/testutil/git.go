// Package testutil holds git fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// SetupTestGitRepo initializes a git repository at dir (a temp dir when empty).
// Returns the repository, its worktree and the path.
func SetupTestGitRepo(t *testing.T, dir string) (*git.Repository, *git.Worktree, string) {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "init repo")
	wt, err := repo.Worktree()
	require.NoError(t, err, "worktree")
	return repo, wt, dir
}

// CommitFile writes name (relative to dir) and commits it as a tester.
func CommitFile(t *testing.T, repo *git.Repository, dir, name, content, msg string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(name))
	require.NoError(t, err)
	_, err = wt.Commit(msg, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
}

// NewBareRemote creates a bare repository at barePath whose master branch
// holds one seed commit with files.
func NewBareRemote(t *testing.T, barePath string, files map[string]string) string {
	t.Helper()
	_, err := git.PlainInit(barePath, true)
	require.NoError(t, err, "init bare")

	seed, _, seedPath := SetupTestGitRepo(t, "")
	_, err = seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{barePath}})
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		CommitFile(t, seed, seedPath, name, files[name], "seed "+name)
	}
	require.NoError(t, seed.Push(&git.PushOptions{RemoteName: "origin"}), "push seed")
	return barePath
}

// RemoteLog returns the commit messages reachable from HEAD of the repository
// at path, newest first.
func RemoteLog(t *testing.T, path string) []string {
	t.Helper()
	repo, err := git.PlainOpen(path)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	require.NoError(t, err)
	var msgs []string
	require.NoError(t, iter.ForEach(func(c *object.Commit) error {
		msgs = append(msgs, c.Message)
		return nil
	}))
	return msgs
}

// HeadCommit returns the commit HEAD points at in the repository at path.
func HeadCommit(t *testing.T, path string) *object.Commit {
	t.Helper()
	repo, err := git.PlainOpen(path)
	require.NoError(t, err)
	ref, err := repo.Head()
	require.NoError(t, err)
	c, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return c
}

// PushFile commits name to the bare repository at barePath through a
// separate clone, as another contributor would.
func PushFile(t *testing.T, barePath, name, content, msg string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: barePath})
	require.NoError(t, err, "clone for push")
	CommitFile(t, repo, dir, name, content, msg)
	require.NoError(t, repo.Push(&git.PushOptions{RemoteName: "origin"}), "push "+name)
}
