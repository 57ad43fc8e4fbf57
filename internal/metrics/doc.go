// Package metrics provides run metrics for bookstage.
//
// Components receive a Recorder and default to NoopRecorder, so staging code never
// checks for nil. When a metrics file is configured the CLI injects a
// PrometheusRecorder and, once the run finishes, writes the registry in the
// Prometheus text exposition format (suitable for the node_exporter textfile
// collector):
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
