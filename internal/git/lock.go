package git

import (
	"context"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// commitLock serializes commit critical sections on one working copy.
// Waiting senders on a channel are queued in arrival order, so waiters are
// admitted first-come-first-served and none starve.
type commitLock struct {
	sem chan struct{}
}

func newCommitLock() *commitLock {
	return &commitLock{sem: make(chan struct{}, 1)}
}

// Lock blocks until the lock is held or ctx is done.
func (l *commitLock) Lock(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.RepositoryError("waiting for commit lock canceled").
			WithCause(ctx.Err()).
			WithContext("op", "commit").
			Build()
	}
}

// Unlock releases the lock. Unlocking an unheld lock is a programming error.
func (l *commitLock) Unlock() {
	select {
	case <-l.sem:
	default:
		panic("git: unlock of unlocked commit lock")
	}
}
