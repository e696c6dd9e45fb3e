// Package watchdog polls the liveness of the external driver process and
// reports on a notification channel when it disappears. The watchdog never
// terminates the process itself; the supervising layer owns that decision,
// keeping exit control centralized and testable.
package watchdog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/imageforge/internal/cliargs"
	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
	"git.home.luguber.info/inful/imageforge/internal/logfields"
	"git.home.luguber.info/inful/imageforge/internal/metrics"
)

// Identity is the process identity the probe expects to find in the watched
// process's comm value.
const Identity = "imageforge"

// period is the fixed probe interval.
const period = time.Second

// Probe reads the recorded identity of the process with the given id.
type Probe func(pid int) (string, error)

// procfsProbe reads /proc/<pid>/comm.
func procfsProbe(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Supported reports whether the host exposes the procfs liveness indicator.
func Supported() bool {
	_, err := os.Stat("/proc/self/comm")
	return err == nil
}

// Watchdog runs the periodic liveness probe as an independent background task.
type Watchdog struct {
	pid       int
	probe     Probe
	recorder  metrics.Recorder
	scheduler gocron.Scheduler

	gone     chan string
	goneOnce sync.Once
	stopOnce sync.Once
}

// Option customizes a Watchdog, used by tests to inject probes and clocks.
type Option func(*settings)

type settings struct {
	probe    Probe
	clock    clockwork.Clock
	recorder metrics.Recorder
}

// WithProbe replaces the procfs probe.
func WithProbe(p Probe) Option { return func(s *settings) { s.probe = p } }

// WithClock injects a scheduler clock.
func WithClock(c clockwork.Clock) Option { return func(s *settings) { s.clock = c } }

// WithRecorder injects a metrics recorder for probe results.
func WithRecorder(r metrics.Recorder) Option { return func(s *settings) { s.recorder = r } }

// New creates a watchdog for the given external process id. Host support for
// the liveness probe is a hard precondition.
func New(pid int, opts ...Option) (*Watchdog, error) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.probe == nil {
		if !Supported() {
			return nil, ferrors.Configurationf("'%s <pid>' requires system with /proc", cliargs.WatchPidFlag)
		}
		s.probe = procfsProbe
	}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}

	schedOpts := []gocron.SchedulerOption{}
	if s.clock != nil {
		schedOpts = append(schedOpts, gocron.WithClock(s.clock))
	}
	scheduler, err := gocron.NewScheduler(schedOpts...)
	if err != nil {
		return nil, fmt.Errorf("create watchdog scheduler: %w", err)
	}

	w := &Watchdog{
		pid:       pid,
		probe:     s.probe,
		recorder:  s.recorder,
		scheduler: scheduler,
		gone:      make(chan string, 1),
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(period),
		gocron.NewTask(w.checkOnce),
		gocron.WithName("imageforge pid watcher"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	); err != nil {
		return nil, fmt.Errorf("schedule watchdog probe: %w", err)
	}
	return w, nil
}

// Start begins the periodic probe.
func (w *Watchdog) Start() {
	slog.Debug("Starting process watchdog", logfields.Pid(w.pid))
	w.scheduler.Start()
}

// Stop cancels the probe. It is safe to call from every orchestrator exit
// path, any number of times.
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() {
		if err := w.scheduler.Shutdown(); err != nil {
			slog.Debug("Watchdog scheduler shutdown", logfields.Error(err))
		}
	})
}

// Gone delivers at most one notification naming why the watched process is
// considered gone.
func (w *Watchdog) Gone() <-chan string { return w.gone }

// checkOnce performs a single liveness probe.
func (w *Watchdog) checkOnce() {
	comm, err := w.probe(w.pid)
	if err != nil {
		w.recorder.IncWatchdogProbe("gone")
		w.reportGone(fmt.Sprintf("cannot read liveness indicator of process %d: %v", w.pid, err))
		return
	}
	if !strings.Contains(comm, Identity) {
		w.recorder.IncWatchdogProbe("gone")
		w.reportGone(fmt.Sprintf("process %d is no longer %s (found '%s')", w.pid, Identity, comm))
		return
	}
	w.recorder.IncWatchdogProbe("alive")
}

func (w *Watchdog) reportGone(reason string) {
	w.goneOnce.Do(func() {
		w.gone <- reason
	})
}
