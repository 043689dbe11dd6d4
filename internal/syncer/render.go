package syncer

import (
	"git.home.luguber.info/inful/wikilist/internal/catalog"
	"git.home.luguber.info/inful/wikilist/internal/config"
	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/markdown"
)

// Collection selects the catalog section rendered for kind.
func Collection(cat *catalog.Catalog, kind listgen.Kind) catalog.Collection {
	if kind.IsFolder() {
		return cat.Folders
	}
	return cat.Files
}

// RenderOptions derives the rendering options of kind from cfg.
func RenderOptions(cfg *config.Config, kind listgen.Kind) listgen.Options {
	return listgen.Options{
		ImagesBaseURL: cfg.ImagesBaseURL,
		Compact:       cfg.CompactFor(kind.String()),
		SkipDisabled:  cfg.SkipDisabled,
	}
}

// RenderTable renders the table for kind and checks that it is a well-formed
// GFM table of the expected shape.
func RenderTable(cat *catalog.Catalog, kind listgen.Kind, opts listgen.Options) (listgen.Table, string, error) {
	table := listgen.Render(Collection(cat, kind), kind, opts)
	if err := table.Validate(); err != nil {
		return table, "", errors.InternalError("rendered table is inconsistent").
			WithCause(err).
			WithContext("kind", kind.String()).
			Build()
	}
	text := table.String()
	if err := markdown.CheckTable([]byte(text), kind.ColumnCount(), len(table.Rows)); err != nil {
		return table, "", errors.InternalError("rendered table does not parse as expected").
			WithCause(err).
			WithContext("kind", kind.String()).
			Build()
	}
	return table, text, nil
}
