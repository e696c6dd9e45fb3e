// Package builder composes environment validation, configuration, entry point
// resolution, executor allocation and the delegated generator call into one
// sequential build lifecycle per invocation.
package builder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/imageforge/internal/classpath"
	"git.home.luguber.info/inful/imageforge/internal/config"
	"git.home.luguber.info/inful/imageforge/internal/entrypoint"
	"git.home.luguber.info/inful/imageforge/internal/executor"
	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
	"git.home.luguber.info/inful/imageforge/internal/generator"
	"git.home.luguber.info/inful/imageforge/internal/history"
	"git.home.luguber.info/inful/imageforge/internal/logfields"
	"git.home.luguber.info/inful/imageforge/internal/metrics"
	"git.home.luguber.info/inful/imageforge/internal/report"
	"git.home.luguber.info/inful/imageforge/internal/timer"
)

// Validator gates the transition out of the Validating state.
type Validator interface {
	Validate() bool
}

// GeneratorFactory creates the engine for one configured build.
type GeneratorFactory func(cfg *config.Config) generator.Generator

// LoaderFactory builds the class index from the resolved classpath.
type LoaderFactory func(resolved []string) (entrypoint.Loader, error)

// generatorHandle is the single piece of cross-thread state: written once by
// the driving thread when Running begins, read by InterruptBuild callers.
type generatorHandle struct {
	gen generator.Generator
}

// Orchestrator drives one build invocation through the lifecycle state
// machine. All Build steps execute on the calling goroutine; only
// InterruptBuild may be called from elsewhere.
type Orchestrator struct {
	rep          *report.Reporter
	checker      Validator
	newGenerator GeneratorFactory
	newLoader    LoaderFactory
	recorder     metrics.Recorder
	registry     *Registry
	defaults     config.Defaults
	timerOut     io.Writer

	active atomic.Pointer[generatorHandle]

	// state is only written by the driving goroutine.
	state State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithValidator replaces the host environment validator.
func WithValidator(v Validator) Option { return func(o *Orchestrator) { o.checker = v } }

// WithGeneratorFactory replaces the engine factory.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(o *Orchestrator) { o.newGenerator = f }
}

// WithLoaderFactory replaces the class index factory.
func WithLoaderFactory(f LoaderFactory) Option { return func(o *Orchestrator) { o.newLoader = f } }

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(o *Orchestrator) { o.recorder = r } }

// WithRegistry binds the process-scoped build registration.
func WithRegistry(r *Registry) Option { return func(o *Orchestrator) { o.registry = r } }

// WithDefaults preloads file defaults for option parsing.
func WithDefaults(d config.Defaults) Option { return func(o *Orchestrator) { o.defaults = d } }

// WithTimerOutput redirects the phase timer lines.
func WithTimerOutput(w io.Writer) Option { return func(o *Orchestrator) { o.timerOut = w } }

// New creates an orchestrator in the Idle state.
func New(rep *report.Reporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		rep:      rep,
		recorder: metrics.NoopRecorder{},
		registry: NewRegistry(),
		state:    StateIdle,
		timerOut: os.Stdout,
		newLoader: func(resolved []string) (entrypoint.Loader, error) {
			return classpath.BuildIndex(resolved)
		},
		newGenerator: func(cfg *config.Config) generator.Generator {
			return generator.NewEngine(".", metrics.NoopRecorder{})
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current lifecycle state. Meaningful to read from the
// driving goroutine, or from anywhere once Build has returned.
func (o *Orchestrator) State() State { return o.state }

// InterruptBuild forwards a cancellation request to the active delegated
// call, if one exists. It never forces a state transition itself: only the
// running generator, observing the request, can move the state machine.
func (o *Orchestrator) InterruptBuild() {
	if h := o.active.Load(); h != nil {
		h.gen.InterruptBuild()
	}
}

// Build runs one invocation: args is the post-extraction argument list,
// classpathEntries the extracted image classpath. It returns the process
// exit status, 0 only for full completion or cooperative interruption.
func (o *Orchestrator) Build(ctx context.Context, args []string, classpathEntries []string) int {
	invocationID := uuid.NewString()
	startedAt := time.Now()
	o.registry.register(o)

	var (
		cfg    *config.Config
		hist   *history.Store
		reason string
	)
	defer func() {
		// unconditional cleanup on every terminal transition
		o.registry.clear()
		o.active.Store(nil)
		o.recorder.IncBuildOutcome(strings.ToLower(string(o.state)))
		o.recorder.ObserveBuildDuration(time.Since(startedAt))
		if hist != nil {
			o.recordInvocation(ctx, hist, invocationID, cfg, reason, startedAt)
			if err := hist.Close(); err != nil {
				slog.Debug("Closing history store", logfields.Error(err))
			}
		}
	}()

	o.state = StateValidating
	if !o.checker.Validate() {
		o.state = StateFailed
		return 1
	}

	totalTimer := timer.New("total", o.timerOut)
	stopTotal := totalTimer.Start()

	o.state = StateConfiguring
	classlistTimer := timer.New("classlist", o.timerOut)
	stopClasslist := classlistTimer.Start()
	resolved, err := classpath.Resolve(classpathEntries)
	if err != nil {
		o.state = StateFailed
		o.reportFailure(err)
		return 1
	}
	index, err := o.newLoader(resolved)
	stopClasslist()
	if err != nil {
		o.state = StateFailed
		o.reportFailure(err)
		return 1
	}

	cfg, err = config.ParseOptions(args, o.defaults)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		o.state = StateFailed
		o.reportFailure(err)
		return 1
	}
	o.rep.EnableStackTraces(cfg.ReportStackTraces)
	totalTimer.SetPrefix(cfg.ImageName)
	classlistTimer.SetPrefix(cfg.ImageName)
	classlistTimer.Print()
	slog.Info("Build configured", logfields.Invocation(invocationID),
		logfields.Image(cfg.ImageName), logfields.Kind(string(cfg.Kind)))

	if cfg.HistoryFile != "" {
		hist, err = history.Open(cfg.HistoryFile)
		if err != nil {
			o.state = StateFailed
			o.reportFailure(ferrors.WrapConfiguration(err, "Cannot open history file '%s'.", cfg.HistoryFile))
			return 1
		}
	}

	var mainEntryPoint *entrypoint.Descriptor
	if cfg.TargetClass != "" {
		o.state = StateResolvingEntryPoint
		mainEntryPoint, err = entrypoint.Resolve(index, cfg.TargetClass, cfg.TargetMethod)
		if err != nil {
			o.state = StateFailed
			o.reportFailure(err)
			return 1
		}
	}

	o.state = StateRunning
	pair := executor.NewPair(cfg.MaxAnalysisThreads, cfg.MaxCompilationThreads)
	gen := o.newGenerator(cfg)
	o.active.Store(&generatorHandle{gen: gen})

	req := &generator.Request{
		MainEntryPoint:     mainEntryPoint,
		ImageName:          cfg.ImageName,
		ImageKind:          cfg.Kind,
		Substitution:       generator.SubstitutionIdentity,
		Analysis:           pair.Analysis,
		Compilation:        pair.Compilation,
		RuntimeOptionNames: cfg.RuntimeOptionNames,
	}
	if mainEntryPoint != nil {
		req.EntryPoints = []*entrypoint.Descriptor{mainEntryPoint}
		req.MainSupport = mainEntryPoint.Support
	}

	// single failure boundary for the Running state
	err = gen.Run(ctx, req)
	switch {
	case err == nil:
		o.state = StateCompleted
		stopTotal()
		totalTimer.Print()
		return 0

	case ferrors.KindOf(err) == ferrors.KindInterrupt:
		pair.ShutdownNow()
		if ie, ok := ferrors.AsInterrupt(err); ok {
			if r, present := ie.Reason(); present {
				reason = r
				o.rep.Info(r)
			}
		}
		o.state = StateInterrupted
		return 0

	default:
		o.state = StateFailed
		o.reportFailure(err)
		return 1
	}
}

// reportFailure renders any classified or unclassified failure. Interrupts
// never reach here.
func (o *Orchestrator) reportFailure(err error) {
	switch ferrors.KindOf(err) {
	case ferrors.KindConfiguration, ferrors.KindAnalysis:
		o.rep.ClassifiedError(err)
	case ferrors.KindAggregate:
		agg, _ := ferrors.AsAggregate(err)
		o.rep.AggregateError(agg)
	default:
		o.rep.FatalError(err)
	}
}

func (o *Orchestrator) recordInvocation(ctx context.Context, hist *history.Store, id string,
	cfg *config.Config, reason string, startedAt time.Time) {
	inv := history.Invocation{
		ID:        id,
		State:     string(o.state),
		Reason:    reason,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}
	if cfg != nil {
		inv.ImageName = cfg.ImageName
		inv.ImageKind = string(cfg.Kind)
	}
	if o.state != StateCompleted && o.state != StateInterrupted {
		inv.ExitCode = 1
	}
	if err := hist.Record(ctx, inv); err != nil {
		slog.Warn("Failed to record invocation history", logfields.Error(err))
	}
}
