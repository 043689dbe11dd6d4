package commands

import (
	"context"
	"io"

	"git.home.luguber.info/inful/wikilist/internal/catalog"
	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/syncer"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Kind string `arg:"" enum:"files,folders" help:"Page to render (files|folders)"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	kind, err := listgen.ParseKind(r.Kind)
	if err != nil {
		return err
	}
	cat, err := catalog.NewFileSource(cfg.Catalog).Load(context.Background())
	if err != nil {
		return err
	}
	_, text, err := syncer.RenderTable(cat, kind, syncer.RenderOptions(cfg, kind))
	if err != nil {
		return err
	}
	_, err = io.WriteString(g.Out, text)
	return err
}
