// Package daemon keeps the wiki lists in sync continuously: on a schedule and,
// optionally, whenever the catalog file changes.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
	"git.home.luguber.info/inful/wikilist/internal/syncer"
)

// Runner performs one sync pass. *syncer.Orchestrator implements it.
type Runner interface {
	Run(ctx context.Context, kinds ...listgen.Kind) (*syncer.Result, error)
}

// Options configure a Daemon.
type Options struct {
	Kinds []listgen.Kind
	// Schedule is a cron expression; empty selects Interval.
	Schedule string
	Interval time.Duration
	// CatalogPath is watched when WatchCatalog is set.
	CatalogPath  string
	WatchCatalog bool
	Debounce     time.Duration
	// AfterRun is called after every pass, successful or not.
	AfterRun func(*syncer.Result, error)
}

// Daemon triggers sync passes. Passes never overlap.
type Daemon struct {
	runner Runner
	opts   Options
	mu     sync.Mutex
}

// New creates a daemon around runner.
func New(runner Runner, opts Options) *Daemon {
	return &Daemon{runner: runner, opts: opts}
}

// Run blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	sched, err := NewScheduler()
	if err != nil {
		return err
	}
	if d.opts.Schedule != "" {
		_, err = sched.ScheduleCron("sync", d.opts.Schedule, func() { d.syncOnce(ctx, "schedule") })
	} else {
		_, err = sched.ScheduleEvery("sync", d.opts.Interval, func() { d.syncOnce(ctx, "schedule") })
	}
	if err != nil {
		_ = sched.Stop(ctx)
		return err
	}

	var watcher *CatalogWatcher
	if d.opts.WatchCatalog && d.opts.CatalogPath != "" {
		watcher, err = NewCatalogWatcher(d.opts.CatalogPath, d.opts.Debounce, func(ctx context.Context) { d.syncOnce(ctx, "catalog") })
		if err != nil {
			_ = sched.Stop(ctx)
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			_ = sched.Stop(ctx)
			return err
		}
	}

	sched.Start(ctx)
	slog.Info("Daemon started", slog.String("schedule", d.opts.Schedule), slog.Duration("interval", d.opts.Interval),
		slog.Bool("watch_catalog", watcher != nil))
	<-ctx.Done()

	if watcher != nil {
		watcher.Stop()
	}
	if err := sched.Stop(context.Background()); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
	slog.Info("Daemon stopped")
	return nil
}

// syncOnce runs one pass unless ctx is done. Triggers arriving during a pass wait for it.
func (d *Daemon) syncOnce(ctx context.Context, trigger string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	slog.Info("Sync triggered", slog.String("trigger", trigger))
	res, err := d.runner.Run(ctx, d.opts.Kinds...)
	if err != nil {
		slog.Error("Scheduled sync failed", slog.String("trigger", trigger), logfields.Error(err))
	}
	if d.opts.AfterRun != nil {
		d.opts.AfterRun(res, err)
	}
}
