package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyKind       = "kind"
	KeyDocument   = "document"
	KeyMode       = "mode"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRepo       = "repository"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyCommits    = "commits"
	KeyAccount    = "account"
	KeyEntries    = "entries"
	KeyChanged    = "changed"
	KeySchedule   = "schedule_name"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Account(a string) slog.Attr      { return slog.String(KeyAccount, a) }
func Commits(n int) slog.Attr         { return slog.Int(KeyCommits, n) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Changed(c bool) slog.Attr        { return slog.Bool(KeyChanged, c) }
func ScheduleName(n string) slog.Attr { return slog.String(KeySchedule, n) }

// Commit shortens a full hash to the 8 characters used in log lines.
func Commit(hash string) slog.Attr {
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return slog.String(KeyCommit, hash)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
