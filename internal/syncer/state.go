package syncer

import (
	"git.home.luguber.info/inful/wikilist/internal/git"
	"git.home.luguber.info/inful/wikilist/internal/listgen"
	"git.home.luguber.info/inful/wikilist/internal/metrics"
)

// State is the position of a page in the sync state machine.
type State string

const (
	StateInit      State = "init"
	StateLoaded    State = "loaded"
	StateRendered  State = "rendered"
	StateUnchanged State = "unchanged"
	StateComposed  State = "composed"
	StateCommitted State = "committed"
	StateWritten   State = "written"
	StateSkipped   State = "skipped"
)

// DocumentResult is the outcome of one page.
type DocumentResult struct {
	Kind  listgen.Kind
	Page  string
	State State
	// FirstDifference is the first differing table line, -1 when unchanged or not compared.
	FirstDifference int
	Commit          *git.CommitRecord
	// Path is the file written in file mode.
	Path string
}

// Result summarizes a run.
type Result struct {
	RunID     string
	Documents []DocumentResult
	Commits   int
	Pushed    int
}

func (s State) outcome() metrics.DocumentOutcome {
	switch s {
	case StateCommitted:
		return metrics.DocumentCommitted
	case StateWritten:
		return metrics.DocumentWritten
	case StateSkipped:
		return metrics.DocumentSkipped
	default:
		return metrics.DocumentUnchanged
	}
}
