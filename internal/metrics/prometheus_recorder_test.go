package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome("success")
	pr.IncDocumentOutcome("files", DocumentCommitted)
	pr.IncDocumentOutcome("folders", DocumentUnchanged)
	pr.ObserveCloneDuration("wiki", time.Second, true)
	pr.ObservePush(2*time.Second, PushSuccess)
	pr.AddCommits(1)
	pr.AddCommits(0)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.commits), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.documents.WithLabelValues("files", "committed")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome("failed")

	path := filepath.Join(t.TempDir(), "wikilist.prom")
	require.NoError(t, pr.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `wikilist_run_outcomes_total{outcome="failed"} 1`))
}
