// Package region finds the generated table inside a hand-authored page, decides
// whether it changed and splices a fresh table in its place.
package region

import (
	"strings"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// Explicit markers bounding the generated region. When present they take
// precedence over table-line detection.
const (
	BeginMarker = "<!-- wikilist:begin -->"
	EndMarker   = "<!-- wikilist:end -->"
)

// Region is the generated part of a document.
type Region struct {
	// Text is the captured substring, line terminators included.
	Text string
	// Start and End are byte offsets of Text in the document it was located in.
	Start, End int
	// Lines holds the captured lines without terminators.
	Lines []string
	// Bounded is true when the region sits between BeginMarker and EndMarker.
	Bounded bool
	// CRLF is true when the captured lines are terminated by "\r\n".
	CRLF bool
}

type line struct {
	start, end int // end excludes the terminator
	next       int // offset of the following line
	text       string
	crlf       bool
}

func splitLines(doc string) []line {
	var lines []line
	for pos := 0; pos < len(doc); {
		nl := strings.IndexByte(doc[pos:], '\n')
		l := line{start: pos}
		if nl < 0 {
			l.end, l.next = len(doc), len(doc)
		} else {
			l.end, l.next = pos+nl, pos+nl+1
		}
		l.text = doc[l.start:l.end]
		if strings.HasSuffix(l.text, "\r") {
			l.text = strings.TrimSuffix(l.text, "\r")
			l.crlf = nl >= 0
		}
		lines = append(lines, l)
		pos = l.next
	}
	return lines
}

// IsTableLine reports whether a line (without terminator) begins and ends with '|'.
func IsTableLine(s string) bool {
	s = strings.TrimSuffix(s, "\r")
	return len(s) >= 2 && s[0] == '|' && s[len(s)-1] == '|'
}

// Locate finds the generated region of doc. Marker-bounded regions win; without
// markers the document must contain exactly one contiguous run of table lines.
func Locate(doc string) (Region, error) {
	lines := splitLines(doc)
	if r, ok, err := locateBounded(doc, lines); ok || err != nil {
		return r, err
	}

	type run struct{ first, last int }
	var runs []run
	for i, l := range lines {
		if !IsTableLine(l.text) {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].last == i-1 {
			runs[n-1].last = i
			continue
		}
		runs = append(runs, run{first: i, last: i})
	}

	switch len(runs) {
	case 0:
		return Region{}, errors.NotFoundError("no generated table found in document").Build()
	case 1:
	default:
		starts := make([]int, len(runs))
		for i, r := range runs {
			starts[i] = r.first + 1
		}
		return Region{}, errors.CompositionError("ambiguous region: document contains several disjoint tables").
			WithContext("table_lines", starts).
			Build()
	}

	return capture(doc, lines[runs[0].first:runs[0].last+1], false), nil
}

func locateBounded(doc string, lines []line) (Region, bool, error) {
	begin := -1
	for i, l := range lines {
		switch strings.TrimSpace(l.text) {
		case BeginMarker:
			if begin < 0 {
				begin = i
			}
		case EndMarker:
			if begin < 0 {
				return Region{}, false, errors.CompositionError("end marker precedes begin marker").
					WithContext("line", i+1).
					Build()
			}
			r := capture(doc, lines[begin+1:i], true)
			if len(r.Lines) == 0 {
				r.Start, r.End = lines[begin].next, lines[begin].next
				r.CRLF = lines[begin].crlf
			}
			return r, true, nil
		}
	}
	if begin >= 0 {
		return Region{}, false, errors.CompositionError("begin marker without end marker").
			WithContext("line", begin+1).
			Build()
	}
	return Region{}, false, nil
}

func capture(doc string, lines []line, bounded bool) Region {
	r := Region{Bounded: bounded}
	if len(lines) == 0 {
		return r
	}
	r.Start = lines[0].start
	r.End = lines[len(lines)-1].next
	r.Text = doc[r.Start:r.End]
	r.Lines = make([]string, len(lines))
	for i, l := range lines {
		r.Lines[i] = l.text
		r.CRLF = r.CRLF || l.crlf
	}
	return r
}
