package region

import "strings"

// ChangeSet is the outcome of comparing a published region with a fresh table.
type ChangeSet struct {
	Changed bool
	Old     []string
	New     []string
	// FirstDifference is the index of the first differing line, or -1.
	FirstDifference int
}

// Detect compares the region with the freshly rendered table line by line after
// normalizing line endings. Any difference in length or content is a change.
func Detect(r Region, table string) ChangeSet {
	cs := ChangeSet{
		Old:             normalizeLines(r.Text),
		New:             normalizeLines(table),
		FirstDifference: -1,
	}
	n := min(len(cs.Old), len(cs.New))
	for i := range n {
		if cs.Old[i] != cs.New[i] {
			cs.FirstDifference = i
			break
		}
	}
	if cs.FirstDifference < 0 && len(cs.Old) != len(cs.New) {
		cs.FirstDifference = n
	}
	cs.Changed = cs.FirstDifference >= 0
	return cs
}

// normalizeLines splits s into lines, treating "\r\n" as "\n" and dropping the
// empty element produced by a trailing terminator.
func normalizeLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
