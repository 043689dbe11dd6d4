package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// CatalogWatcher monitors the catalog file and invokes onChange after
// changes settle for the debounce period.
type CatalogWatcher struct {
	path         string
	watcher      *fsnotify.Watcher
	onChange     func(ctx context.Context)
	debounceTime time.Duration

	stopOnce  sync.Once
	stopChan  chan struct{}
	triggerCh chan struct{}
}

// NewCatalogWatcher creates a watcher for path.
func NewCatalogWatcher(path string, debounce time.Duration, onChange func(ctx context.Context)) (*CatalogWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.IOError("failed to resolve catalog path").WithCause(err).WithContext("path", path).Build()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.IOError("failed to create file watcher").WithCause(err).Build()
	}
	return &CatalogWatcher{
		path:         absPath,
		watcher:      watcher,
		onChange:     onChange,
		debounceTime: debounce,
		stopChan:     make(chan struct{}),
		triggerCh:    make(chan struct{}, 1),
	}, nil
}

// Start begins monitoring. The directory is watched rather than the file so
// editors that replace the file atomically are still observed.
func (cw *CatalogWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(cw.path)
	if err := cw.watcher.Add(dir); err != nil {
		return errors.IOError("failed to watch catalog directory").WithCause(err).WithContext("path", dir).Build()
	}
	slog.Info("Starting catalog watcher", logfields.Path(cw.path))

	go cw.watchLoop(ctx)
	go cw.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (cw *CatalogWatcher) Stop() {
	cw.stopOnce.Do(func() {
		slog.Info("Stopping catalog watcher")
		close(cw.stopChan)
		if err := cw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}

func (cw *CatalogWatcher) watchLoop(ctx context.Context) {
	name := filepath.Base(cw.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Catalog change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				cw.trigger()
			case event.Has(fsnotify.Remove):
				slog.Warn("Catalog file removed", logfields.Path(event.Name))
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Catalog watcher error", logfields.Error(err))
		}
	}
}

func (cw *CatalogWatcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-cw.stopChan:
			stop()
			return
		case <-cw.triggerCh:
			stop()
			timer = time.AfterFunc(cw.debounceTime, func() { cw.onChange(ctx) })
		}
	}
}

func (cw *CatalogWatcher) trigger() {
	select {
	case cw.triggerCh <- struct{}{}:
	default:
	}
}
