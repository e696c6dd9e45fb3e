package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome("completed")
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.ObservePhaseDuration("analysis", 150*time.Millisecond)
	pr.IncWatchdogProbe("ok")
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorderDump(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome("completed")
	pr.ObservePhaseDuration("analysis", 150*time.Millisecond)
	pr.IncWatchdogProbe("alive")

	var buf bytes.Buffer
	if err := pr.Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"imageforge_build_outcomes_total",
		"imageforge_phase_duration_seconds",
		"imageforge_watchdog_probes_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %s:\n%s", want, out)
		}
	}
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncBuildOutcome("failed")
	r.ObserveBuildDuration(time.Second)
	r.ObservePhaseDuration("compilation", time.Second)
	r.IncWatchdogProbe("gone")
}
