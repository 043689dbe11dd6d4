package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// update brings a reused working copy up to date with its remote: fetch
// origin, then move the checked-out branch to the remote tip.
//
// A local branch that is ahead of the remote (unpushed commits) is kept. A
// branch that diverged from the remote is reset to it; the working copy only
// ever holds generated commits, and the next pass regenerates them on top of
// the fresh remote state.
func (c *Client) update(ctx context.Context, h *Handle) error {
	if h.RemoteURL == "" {
		return nil
	}
	if err := h.lock.Lock(ctx); err != nil {
		return err
	}
	defer h.lock.Unlock()

	if err := ensureRemote(h); err != nil {
		return err
	}
	start := time.Now()
	if err := c.fetchOrigin(ctx, h); err != nil {
		return err
	}

	branch := resolveTargetBranch(h.repo)
	remoteRef, err := h.repo.Reference(plumbing.NewRemoteReferenceName(DefaultRemoteName, branch), true)
	if err != nil {
		// Empty remote or a branch that was never pushed: nothing to follow.
		slog.Debug("No remote branch to follow", logfields.Path(h.LocalPath), logfields.Branch(branch))
		return nil
	}
	head, err := h.repo.Head()
	if err != nil {
		return errors.RepositoryError("failed to resolve HEAD").WithCause(err).WithContext("op", "update").WithContext("path", h.LocalPath).Build()
	}

	if err := c.syncWithRemote(h, branch, head.Hash(), remoteRef.Hash()); err != nil {
		return err
	}
	slog.Info("Working copy updated", logfields.URL(h.RemoteURL), logfields.Branch(branch),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

// fetchOrigin fetches every branch of origin with the handle's clone depth.
func (c *Client) fetchOrigin(ctx context.Context, h *Handle) error {
	opts := &git.FetchOptions{
		RemoteName: DefaultRemoteName,
		Tags:       git.NoTags,
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
		Progress:   c.progress,
	}
	if h.depth > 0 {
		opts.Depth = h.depth
	}
	if auth := c.auth(h.RemoteURL); auth != nil {
		opts.Auth = auth
	}
	if err := h.repo.FetchContext(ctx, opts); err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return classify("fetch", h.RemoteURL, err)
	}
	return nil
}

// syncWithRemote fast-forwards the worktree to remote, keeps a local branch
// that is strictly ahead, and resets a diverged one.
func (c *Client) syncWithRemote(h *Handle, branch string, local, remote plumbing.Hash) error {
	if local == remote {
		slog.Debug("Working copy already up-to-date", logfields.Path(h.LocalPath), logfields.Commit(remote.String()))
		return nil
	}
	if isAncestor(h.repo, remote, local) {
		slog.Info("Local branch ahead of remote", logfields.Path(h.LocalPath), logfields.Branch(branch))
		return nil
	}

	if isAncestor(h.repo, local, remote) {
		slog.Info("Fast-forwarding working copy", logfields.Path(h.LocalPath), logfields.Branch(branch),
			slog.String("from", local.String()[:8]), slog.String("to", remote.String()[:8]))
	} else {
		slog.Warn("Local branch diverged from remote, resetting", logfields.Path(h.LocalPath), logfields.Branch(branch),
			slog.String("local", local.String()[:8]), slog.String("remote", remote.String()[:8]))
	}

	wt, err := h.repo.Worktree()
	if err != nil {
		return errors.RepositoryError("failed to open worktree").WithCause(err).WithContext("op", "update").Build()
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remote, Mode: git.HardReset}); err != nil {
		return errors.RepositoryError("failed to move working copy to remote").
			WithCause(err).
			WithContext("op", "update").
			WithContext("path", h.LocalPath).
			Build()
	}
	return nil
}

// resolveTargetBranch follows HEAD when it is a branch, then the remote's
// default branch, then master.
func resolveTargetBranch(repo *git.Repository) string {
	if ref, err := repo.Head(); err == nil && ref.Name().IsBranch() {
		return ref.Name().Short()
	}
	if ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName(DefaultRemoteName), true); err == nil && ref.Name().IsRemote() {
		return strings.TrimPrefix(ref.Name().Short(), DefaultRemoteName+"/")
	}
	return "master"
}

// isAncestor reports whether a is reachable from b. Parents missing from a
// shallow history end the walk on that path.
func isAncestor(repo *git.Repository, a, b plumbing.Hash) bool {
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == a {
			return true
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repo.CommitObject(h)
		if err != nil {
			continue
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false
}
