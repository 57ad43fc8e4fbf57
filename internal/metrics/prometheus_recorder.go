package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookstage"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	exampleDuration    *prom.HistogramVec
	exampleResults     *prom.CounterVec
	buildDuration      prom.Histogram
	buildOutcome       *prom.CounterVec
	stagingConcurrency prom.Gauge
	runDuration        prom.Gauge
	lastRun            prom.Gauge
}

// NewPrometheusRecorder constructs and registers the staging metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		exampleDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "example_stage_duration_seconds",
			Help:      "Duration of validating and staging one example",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{"result"}),
		exampleResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "example_results_total",
			Help:      "Per-example staging results",
		}, []string{"result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of the external book build",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "External book build outcomes",
		}, []string{"outcome"}),
		stagingConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "staging_concurrency",
			Help:      "Worker count used for the last staging run",
		}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last complete run",
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	reg.MustRegister(pr.exampleDuration, pr.exampleResults, pr.buildDuration, pr.buildOutcome,
		pr.stagingConcurrency, pr.runDuration, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveExampleDuration(result ResultLabel, d time.Duration) {
	if p == nil {
		return
	}
	p.exampleDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncExampleResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.exampleResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetStagingConcurrency(n int) {
	if p == nil {
		return
	}
	p.stagingConcurrency.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Set(d.Seconds())
	p.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
