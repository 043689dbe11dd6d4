package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// pushFunc performs the network push; replaced in tests.
type pushFunc func(ctx context.Context, repo *git.Repository, opts *git.PushOptions) error

func defaultPush(ctx context.Context, repo *git.Repository, opts *git.PushOptions) error {
	return repo.PushContext(ctx, opts)
}

// Push pushes branch to the handle's remote under the configured deadline and
// returns commitCount on success.
func (c *Client) Push(ctx context.Context, h *Handle, branch string, commitCount int) (int, error) {
	if err := ensureRemote(h); err != nil {
		return 0, err
	}

	opts := &git.PushOptions{
		RemoteName: DefaultRemoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))},
		Progress:   c.progress,
	}
	if auth := c.auth(h.RemoteURL); auth != nil {
		opts.Auth = auth
	}

	push := c.pushFn
	if push == nil {
		push = defaultPush
	}

	slog.Info("Pushing", logfields.URL(h.RemoteURL), logfields.Branch(branch), logfields.Commits(commitCount))
	start := time.Now()
	_, err := withDeadline(ctx, "push", c.pushTimeout, func(ctx context.Context) (struct{}, error) {
		err := push(ctx, h.repo, opts)
		if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
			return struct{}{}, nil
		}
		return struct{}{}, err
	})
	if err != nil {
		if errors.IsTimeout(err) {
			slog.Error("Push timed out", logfields.URL(h.RemoteURL), slog.Duration("timeout", c.pushTimeout))
			return 0, err
		}
		return 0, classify("push", h.RemoteURL, err)
	}

	slog.Info("Pushed", logfields.URL(h.RemoteURL), logfields.Branch(branch), logfields.Commits(commitCount),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return commitCount, nil
}

// ensureRemote points the push remote at the handle's remote URL.
func ensureRemote(h *Handle) error {
	remote, err := h.repo.Remote(DefaultRemoteName)
	if err == nil {
		urls := remote.Config().URLs
		if h.RemoteURL == "" || (len(urls) > 0 && urls[0] == h.RemoteURL) {
			return nil
		}
		if err := h.repo.DeleteRemote(DefaultRemoteName); err != nil {
			return errors.RepositoryError("failed to reset remote").WithCause(err).WithContext("op", "push").Build()
		}
	} else if !stderrors.Is(err, git.ErrRemoteNotFound) {
		return errors.RepositoryError("failed to read remote").WithCause(err).WithContext("op", "push").Build()
	}
	if h.RemoteURL == "" {
		return errors.RepositoryError("no remote configured").WithContext("op", "push").WithContext("path", h.LocalPath).Build()
	}
	if _, err := h.repo.CreateRemote(&config.RemoteConfig{Name: DefaultRemoteName, URLs: []string{h.RemoteURL}}); err != nil {
		return errors.RepositoryError("failed to create remote").WithCause(err).WithContext("op", "push").Build()
	}
	return nil
}
