// Package metrics provides observability hooks for build lifecycle metrics.
// Components receive a Recorder by injection; the default NoopRecorder makes
// metrics collection optional without nil checks at call sites.
package metrics

import "time"

// Recorder defines the build lifecycle metrics operations. Implementations
// may forward to Prometheus or stay no-op when metrics are not configured.
type Recorder interface {
	// IncBuildOutcome counts terminal states: completed|interrupted|failed.
	IncBuildOutcome(outcome string)
	// ObserveBuildDuration records the total wall time of one invocation.
	ObserveBuildDuration(d time.Duration)
	// ObservePhaseDuration records per-phase wall time (analysis|compilation).
	ObservePhaseDuration(phase string, d time.Duration)
	// IncWatchdogProbe counts liveness probes by result (ok|gone).
	IncWatchdogProbe(result string)
}

// NoopRecorder is the default Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) IncWatchdogProbe(string)                    {}
