package listgen

import (
	"fmt"
	"strings"
)

// Row is one rendered table line, one cell per column.
type Row []string

// Table is a rendered catalog: header, alignment row and one Row per entry.
type Table struct {
	Kind   Kind
	Header []string
	Rows   []Row
}

const alignmentCell = ":---:"

// Lines returns the pipe-bounded lines of the table without terminators.
func (t Table) Lines() []string {
	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, formatLine(t.Header))
	align := make([]string, len(t.Header))
	for i := range align {
		align[i] = alignmentCell
	}
	lines = append(lines, formatLine(align))
	for _, r := range t.Rows {
		lines = append(lines, formatLine(r))
	}
	return lines
}

// String renders the table with every line, including the last, terminated by "\n".
func (t Table) String() string {
	var b strings.Builder
	for _, l := range t.Lines() {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// Validate checks the column-count invariant: header, alignment and every row
// have the same number of cells, matching the kind's column set.
func (t Table) Validate() error {
	want := t.Kind.ColumnCount()
	if len(t.Header) != want {
		return fmt.Errorf("%s table header has %d cells, want %d", t.Kind, len(t.Header), want)
	}
	for i, r := range t.Rows {
		if len(r) != want {
			return fmt.Errorf("%s table row %d has %d cells, want %d", t.Kind, i, len(r), want)
		}
	}
	return nil
}

// formatLine joins cells as "| a | b |". Empty cells collapse to "| |".
func formatLine(cells []string) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString("| ")
		if c != "" {
			b.WriteString(c)
			b.WriteByte(' ')
		}
	}
	b.WriteByte('|')
	return b.String()
}
