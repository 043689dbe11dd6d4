package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/wikilist/internal/daemon"
	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/syncer"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Kinds []string `help:"Pages to keep in sync (files,folders)" default:"files,folders"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	kinds := make([]listgen.Kind, 0, len(d.Kinds))
	for _, k := range d.Kinds {
		kind, err := listgen.ParseKind(k)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := newApp(cfg)
	slog.Info("Starting daemon mode", slog.String("schedule", cfg.Daemon.Schedule), slog.Duration("interval", cfg.DaemonInterval()))
	return daemon.New(a.orchestrator, daemon.Options{
		Kinds:        kinds,
		Schedule:     cfg.Daemon.Schedule,
		Interval:     cfg.DaemonInterval(),
		CatalogPath:  cfg.Catalog,
		WatchCatalog: cfg.Daemon.WatchCatalog,
		Debounce:     cfg.DaemonDebounce(),
		AfterRun: func(res *syncer.Result, _ error) {
			a.flushMetrics()
			if res != nil {
				printSummary(g.Out, res)
			}
		},
	}).Run(ctx)
}
