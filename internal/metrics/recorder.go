package metrics

import "time"

// DocumentOutcome is the terminal state of one page in a run.
type DocumentOutcome string

const (
	DocumentUnchanged DocumentOutcome = "unchanged"
	DocumentWritten   DocumentOutcome = "written"
	DocumentCommitted DocumentOutcome = "committed"
	DocumentSkipped   DocumentOutcome = "skipped"
	DocumentFailed    DocumentOutcome = "failed"
)

// PushResult labels push attempts.
type PushResult string

const (
	PushSuccess PushResult = "success"
	PushTimeout PushResult = "timeout"
	PushFailed  PushResult = "failed"
)

// Recorder defines observability hooks for sync runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string) // outcome: success|failed
	IncDocumentOutcome(kind string, outcome DocumentOutcome)
	ObserveCloneDuration(repo string, d time.Duration, success bool)
	ObservePush(d time.Duration, result PushResult)
	AddCommits(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                 {}
func (NoopRecorder) IncRunOutcome(string)                             {}
func (NoopRecorder) IncDocumentOutcome(string, DocumentOutcome)       {}
func (NoopRecorder) ObserveCloneDuration(string, time.Duration, bool) {}
func (NoopRecorder) ObservePush(time.Duration, PushResult)            {}
func (NoopRecorder) AddCommits(int)                                   {}
