// Package metrics records run, document and repository metrics for wikilist.
//
// Components receive a Recorder. NoopRecorder is the default so callers never
// check for nil; PrometheusRecorder registers collectors on a private registry
// and can export a snapshot in the Prometheus text format for node_exporter's
// textfile collector:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	orchestrator := syncer.New(cfg, repo, src).WithRecorder(rec)
//	defer rec.WriteTextfile("/var/lib/node_exporter/wikilist.prom")
package metrics
