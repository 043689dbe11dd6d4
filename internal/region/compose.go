package region

import (
	"strings"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// Compose returns a new document with the region's text replaced by table. All
// bytes outside the region are preserved; the table adopts the region's line
// endings. It fails when the region text is no longer present in doc.
func Compose(doc string, r Region, table string) (string, error) {
	if r.CRLF {
		table = strings.ReplaceAll(strings.ReplaceAll(table, "\r\n", "\n"), "\n", "\r\n")
	}

	if r.Start >= 0 && r.Start <= r.End && r.End <= len(doc) && doc[r.Start:r.End] == r.Text {
		if r.Text != "" || r.Bounded {
			return doc[:r.Start] + table + doc[r.End:], nil
		}
	}

	if r.Text == "" {
		return "", errors.CompositionError("region is empty and its position no longer matches the document").
			WithContext("start", r.Start).
			Build()
	}
	idx := strings.Index(doc, r.Text)
	if idx < 0 {
		return "", errors.CompositionError("region text not found verbatim in document").
			WithContext("region_lines", len(r.Lines)).
			Build()
	}
	return doc[:idx] + table + doc[idx+len(r.Text):], nil
}
