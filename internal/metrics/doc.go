// Package metrics provides observability hooks for listbuilder runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Textfile != "" {
//	    recorder = metrics.NewPrometheusRecorder(reg)
//	}
//
// A one-shot CLI has nothing to scrape, so the Prometheus recorder is flushed
// to a node_exporter textfile with WriteTextfile at the end of a run.
package metrics
