package metrics

import (
	"fmt"
	"io"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	buildOutcome   *prom.CounterVec
	buildDuration  prom.Histogram
	phaseDuration  *prom.HistogramVec
	watchdogProbes *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the build metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "imageforge",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by terminal state",
		}, []string{"outcome"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "imageforge",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "imageforge",
			Name:      "phase_duration_seconds",
			Help:      "Duration of the analysis and compilation phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		watchdogProbes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "imageforge",
			Name:      "watchdog_probes_total",
			Help:      "Watchdog liveness probes by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.buildOutcome, pr.buildDuration, pr.phaseDuration, pr.watchdogProbes)
	return pr
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncWatchdogProbe(result string) {
	p.watchdogProbes.WithLabelValues(result).Inc()
}

// Dump writes every collected metric family to w in the text exposition
// format. This is a one-shot tool, so the registry is surfaced at the end of
// the invocation instead of over a scrape endpoint.
func (p *PrometheusRecorder) Dump(w io.Writer) error {
	families, err := p.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather build metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return fmt.Errorf("encode metric family %s: %w", family.GetName(), err)
		}
	}
	return nil
}
