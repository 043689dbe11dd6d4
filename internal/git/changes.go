package git

import (
	"context"
	stderrors "errors"
	"path"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// HeadHash returns the commit hash HEAD points at.
func HeadHash(h *Handle) (string, error) {
	ref, err := h.repo.Head()
	if err != nil {
		return "", errors.RepositoryError("failed to resolve HEAD").WithCause(err).WithContext("path", h.LocalPath).Build()
	}
	return ref.Hash().String(), nil
}

// ChangedSince reports whether the HEAD commit touched a file whose base name
// is filename. A root commit counts as touching every file it contains. When
// the parent is not available (shallow history) the answer is true.
func (c *Client) ChangedSince(ctx context.Context, h *Handle, filename string) (bool, error) {
	ref, err := h.repo.Head()
	if err != nil {
		return false, errors.RepositoryError("failed to resolve HEAD").WithCause(err).WithContext("path", h.LocalPath).Build()
	}
	head, err := h.repo.CommitObject(ref.Hash())
	if err != nil {
		return false, errors.RepositoryError("failed to load HEAD commit").WithCause(err).WithContext("path", h.LocalPath).Build()
	}
	headTree, err := head.Tree()
	if err != nil {
		return false, errors.RepositoryError("failed to load HEAD tree").WithCause(err).Build()
	}

	if head.NumParents() == 0 {
		return treeContains(headTree, filename)
	}
	parent, err := head.Parent(0)
	if err != nil {
		if stderrors.Is(err, plumbing.ErrObjectNotFound) {
			return true, nil
		}
		return false, errors.RepositoryError("failed to load parent commit").WithCause(err).Build()
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return false, errors.RepositoryError("failed to load parent tree").WithCause(err).Build()
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, headTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return false, errors.RepositoryError("failed to diff HEAD against parent").WithCause(err).Build()
	}
	for _, ch := range changes {
		if path.Base(ch.From.Name) == filename || path.Base(ch.To.Name) == filename {
			return true, nil
		}
	}
	return false, nil
}

func treeContains(tree *object.Tree, filename string) (bool, error) {
	found := false
	err := tree.Files().ForEach(func(f *object.File) error {
		if path.Base(f.Name) == filename {
			found = true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, errors.RepositoryError("failed to walk tree").WithCause(err).Build()
	}
	return found, nil
}
