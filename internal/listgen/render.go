// Package listgen renders an icon catalog into the canonical Markdown table
// published on the wiki list pages.
package listgen

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/wikilist/internal/catalog"
	"git.home.luguber.info/inful/wikilist/internal/logfields"
)

// DefaultImagesBaseURL is where the icon assets referenced by image cells live.
const DefaultImagesBaseURL = "https://github.com/vscode-icons/vscode-icons/blob/master/icons/"

// Options tune rendering.
type Options struct {
	// ImagesBaseURL prefixes every image reference. Empty means DefaultImagesBaseURL.
	ImagesBaseURL string
	// Compact wraps name and pattern cells in <sub></sub>.
	Compact bool
	// SkipDisabled omits entries flagged disabled. By default every entry gets a row.
	SkipDisabled bool
}

func (o Options) baseURL() string {
	if o.ImagesBaseURL == "" {
		return DefaultImagesBaseURL
	}
	return o.ImagesBaseURL
}

// Render turns a catalog collection into a table of the given kind. Rendering is
// deterministic: the same collection in the same order yields identical text.
func Render(col catalog.Collection, kind Kind, opts Options) Table {
	r := renderer{kind: kind, opts: opts}
	t := Table{Kind: kind, Header: kind.Columns()}

	for _, def := range defaultRows(col.Default, kind) {
		if def.entry == nil || r.skip(*def.entry) {
			continue
		}
		t.Rows = append(t.Rows, r.row(*def.entry, def.light, DefaultAssetPrefix, DefaultAssetPrefix, def.forceLight))
	}

	for _, e := range col.Supported {
		if r.skip(e) {
			continue
		}
		t.Rows = append(t.Rows, r.row(e, &e, kind.AssetPrefix(), kind.LightAssetPrefix(), false))
	}

	slog.Debug("Rendered list", logfields.Kind(kind.String()), logfields.Entries(len(t.Rows)))
	return t
}

// defaultRow is an uncategorized entry. Its light cells are rendered from
// light; forced-light rows always get light images.
type defaultRow struct {
	entry      *catalog.Entry
	light      *catalog.Entry
	forceLight bool
}

// defaultRows orders the uncategorized entries: the default entry, its light
// counterpart, then for folders the root folder and its light counterpart.
// The default file row shows the file_light asset in its light column.
func defaultRows(d catalog.Defaults, kind Kind) []defaultRow {
	if kind.IsFolder() {
		return []defaultRow{
			{d.Folder, d.Folder, false},
			{d.FolderLight, d.FolderLight, true},
			{d.RootFolder, d.RootFolder, false},
			{d.RootFolderLight, d.RootFolderLight, true},
		}
	}
	return []defaultRow{
		{d.File, d.FileLight, false},
		{d.FileLight, d.FileLight, true},
	}
}

type renderer struct {
	kind Kind
	opts Options
}

func (r renderer) skip(e catalog.Entry) bool {
	return r.opts.SkipDisabled && e.Disabled
}

// row renders e; the light cells come from light, which may be nil.
func (r renderer) row(e catalog.Entry, light *catalog.Entry, darkPrefix, lightPrefix string, forceLight bool) Row {
	row := make(Row, 0, r.kind.ColumnCount())
	row = append(row, r.small(NameCell(e)), r.small(PatternCell(e)))
	row = append(row, r.images(e, "dark", darkPrefix)...)
	if light != nil && (light.Light || forceLight) {
		row = append(row, r.images(*light, "light", lightPrefix)...)
	} else {
		row = append(row, r.emptyImages()...)
	}
	return row
}

// images returns the closed (and for folders, opened) image cells for a theme.
func (r renderer) images(e catalog.Entry, theme, prefix string) []string {
	format := e.Format
	if format == "" {
		format = catalog.FormatSVG
	}
	base := r.opts.baseURL()
	if !r.kind.IsFolder() {
		return []string{image(e.Icon+"_"+theme, base+prefix+e.Icon+"."+string(format))}
	}
	return []string{
		image(e.Icon+"_"+theme+"_closed", base+prefix+e.Icon+"."+string(format)),
		image(e.Icon+"_"+theme+"_opened", base+prefix+e.Icon+"_opened."+string(format)),
	}
}

func (r renderer) emptyImages() []string {
	if r.kind.IsFolder() {
		return []string{"", ""}
	}
	return []string{""}
}

func (r renderer) small(cell string) string {
	if !r.opts.Compact || cell == "" {
		return cell
	}
	return "<sub>" + cell + "</sub>"
}

func image(alt, src string) string {
	return "![" + alt + "](" + src + ")"
}

// NameCell links the icon name to its anchor on the page.
func NameCell(e catalog.Entry) string {
	if e.Icon == "" {
		return ""
	}
	return "[" + e.Icon + "](#" + Anchor(e.Icon) + ")"
}

// PatternCell lists what an entry matches: extensions, or bold filenames followed
// by glob combinations, then language ids. Parts are joined with a single ", ".
func PatternCell(e catalog.Entry) string {
	var parts []string
	if e.Filename {
		for _, name := range e.Extensions {
			parts = append(parts, "**"+Escape(name)+"**")
		}
		if e.HasGlobs() {
			for _, name := range Combine(e.FilenamesGlob, e.ExtensionsGlob, ".") {
				parts = append(parts, "**"+Escape(name)+"**")
			}
		}
	} else {
		for _, ext := range e.Extensions {
			parts = append(parts, Escape(ext))
		}
	}
	for _, lang := range e.Languages {
		for _, id := range lang.IDs {
			parts = append(parts, "`"+id+"`")
		}
	}
	return strings.Join(parts, ", ")
}

var escaper = strings.NewReplacer(`_`, `\_`, `*`, `\*`)

// Escape backslash-escapes the Markdown-significant characters '_' and '*'.
func Escape(s string) string { return escaper.Replace(s) }

// Combine returns every a+sep+b for a in first and b in second, first-major.
func Combine(first, second []string, sep string) []string {
	out := make([]string, 0, len(first)*len(second))
	for _, a := range first {
		for _, b := range second {
			out = append(out, a+sep+b)
		}
	}
	return out
}

// Anchor derives the heading anchor GitHub generates for an icon name.
func Anchor(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
