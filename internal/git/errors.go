package git

import (
	"strings"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// classify translates go-git failures into classified repository errors.
func classify(op, url string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	builder := errors.WrapError(err, errors.CategoryRepository, op+" failed").
		WithContext("op", op).
		WithContext("url", url)

	// Auth and network failures keep their own exit codes; both still count
	// as repository errors. Everything else stays in the repository category.
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization failed") || strings.Contains(l, "not authorized") || strings.Contains(l, "invalid credentials") || strings.Contains(l, "invalid username or password"):
		builder.WithCategory(errors.CategoryAuth).WithContext("kind", "auth")
	case strings.Contains(l, "repository not found") || strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		builder.WithContext("kind", "not_found")
	case strings.Contains(l, "remote hung up") || strings.Contains(l, "connection reset") || strings.Contains(l, "i/o timeout") || strings.Contains(l, "no route to host") || strings.Contains(l, "connection refused"):
		builder.WithCategory(errors.CategoryNetwork).WithContext("kind", "network")
	case strings.Contains(l, "non-fast-forward") || strings.Contains(l, "diverged"):
		builder.WithContext("kind", "diverged")
	}
	return builder.Build()
}

