package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/wikilist/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also injected via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the one-line version banner printed by --version.
func String() string {
	return fmt.Sprintf("wikilist %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
