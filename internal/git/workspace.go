package git

import (
	"os"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// EnsureWorkspace creates dir (and parents) if it does not exist.
func EnsureWorkspace(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.IOError("failed to create workspace directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	return nil
}
