package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

var categoryPattern = regexp.MustCompile(`files|folders`)

// CommitMessage returns the commit message for a category.
func CommitMessage(category string) string {
	return ":robot: Update list of " + category
}

// Category derives the commit category from the base name of filePath by a
// case-insensitive match on "files" or "folders".
func Category(filePath string) (string, error) {
	name := cases.Fold().String(filepath.Base(filePath))
	if m := categoryPattern.FindString(name); m != "" {
		return m, nil
	}
	return "", errors.RepositoryError("cannot derive commit category from path").
		WithContext("op", "commit").
		WithContext("path", filePath).
		Build()
}

// Commit writes content into the working copy and commits it as the bot identity.
// The write, stage and commit steps run under the handle's lock.
func (c *Client) Commit(ctx context.Context, h *Handle, filePath string, content []byte) (*CommitRecord, error) {
	if len(content) == 0 {
		return nil, nil
	}
	category, err := Category(filePath)
	if err != nil {
		return nil, err
	}
	rel, err := h.relative(filePath)
	if err != nil {
		return nil, err
	}

	if err := h.lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer h.lock.Unlock()

	wt, err := h.repo.Worktree()
	if err != nil {
		return nil, commitError("failed to access worktree", rel, err)
	}
	if err := util.WriteFile(wt.Filesystem, rel, content, 0o644); err != nil {
		return nil, errors.IOError("failed to write file into working copy").
			WithCause(err).
			WithContext("path", rel).
			Build()
	}
	if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
		return nil, commitError("failed to stage file", rel, err)
	}

	msg := CommitMessage(category)
	sig := &object.Signature{Name: c.identity.Name, Email: c.identity.Email, When: c.now()}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
	if stderrors.Is(err, git.ErrEmptyCommit) {
		slog.Debug("Nothing to commit", logfields.Path(rel))
		return nil, nil
	}
	if err != nil {
		return nil, commitError("failed to commit", rel, err)
	}

	slog.Info("Committed", logfields.Path(rel), logfields.Commit(hash.String()), slog.String("category", category))
	return &CommitRecord{Hash: hash.String(), Category: category, Message: msg, Path: rel}, nil
}

// relative maps filePath to a worktree-relative path; it must stay inside the working copy.
func (h *Handle) relative(filePath string) (string, error) {
	rel := filePath
	if filepath.IsAbs(filePath) {
		var err error
		rel, err = filepath.Rel(h.LocalPath, filePath)
		if err != nil {
			return "", commitError("path is not inside the working copy", filePath, err)
		}
	}
	rel = filepath.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", commitError("path is not inside the working copy", filePath, nil)
	}
	return rel, nil
}

func commitError(msg, path string, cause error) error {
	b := errors.RepositoryError(msg).WithContext("op", "commit").WithContext("path", path)
	if cause != nil {
		b.WithCause(cause)
	}
	return b.Build()
}
