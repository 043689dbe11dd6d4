package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/syncer"
)

// AllCmd implements the 'all' command.
type AllCmd struct{}

func (*AllCmd) Run(g *Global, root *CLI) error { return runSync(g, root, listgen.Kinds...) }

// FilesCmd implements the 'files' command.
type FilesCmd struct{}

func (*FilesCmd) Run(g *Global, root *CLI) error { return runSync(g, root, listgen.KindFiles) }

// FoldersCmd implements the 'folders' command.
type FoldersCmd struct{}

func (*FoldersCmd) Run(g *Global, root *CLI) error { return runSync(g, root, listgen.KindFolders) }

func runSync(g *Global, root *CLI, kinds ...listgen.Kind) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := newApp(cfg)
	res, err := a.orchestrator.Run(ctx, kinds...)
	a.flushMetrics()
	if res != nil {
		printSummary(g.Out, res)
	}
	return err
}

func printSummary(w io.Writer, res *syncer.Result) {
	for _, d := range res.Documents {
		if d.Page == "" {
			continue
		}
		line := fmt.Sprintf("%s: %s", d.Page, d.State)
		switch {
		case d.Commit != nil:
			line += " (" + shortHash(d.Commit.Hash) + ")"
		case d.Path != "":
			line += " -> " + d.Path
		}
		_, _ = fmt.Fprintln(w, line) //nolint:forbidigo // user-facing summary
	}
	if res.Pushed > 0 {
		_, _ = fmt.Fprintf(w, "pushed %d commit(s)\n", res.Pushed) //nolint:forbidigo // user-facing summary
	}
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
