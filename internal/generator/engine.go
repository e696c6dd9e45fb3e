package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/imageforge/internal/entrypoint"
	"git.home.luguber.info/inful/imageforge/internal/executor"
	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
	"git.home.luguber.info/inful/imageforge/internal/logfields"
	"git.home.luguber.info/inful/imageforge/internal/metrics"
)

// Engine is the reference generator. It schedules one analysis task per entry
// point and one code generation task per entry point on the two phase pools,
// then writes the image manifest. The heavy pointsto analysis and native code
// generation live behind this same interface in the full toolchain; this
// implementation keeps the lifecycle, concurrency and failure contract real
// without them.
type Engine struct {
	outputDir string
	recorder  metrics.Recorder

	interrupted atomic.Bool
}

// NewEngine creates an engine writing the image manifest into outputDir.
func NewEngine(outputDir string, recorder metrics.Recorder) *Engine {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Engine{outputDir: outputDir, recorder: recorder}
}

// InterruptBuild flags the cooperative interruption request. The running
// phases observe it at task boundaries.
func (e *Engine) InterruptBuild() {
	e.interrupted.Store(true)
}

type manifestEntry struct {
	Class  string `json:"class"`
	Method string `json:"method"`
	Shape  string `json:"shape"`
}

type imageManifest struct {
	ImageName    string          `json:"image_name"`
	ImageKind    string          `json:"image_kind"`
	Substitution string          `json:"substitution"`
	EntryPoints  []manifestEntry `json:"entry_points"`
	Options      []string        `json:"options,omitempty"`
}

// Run executes the analysis and compilation phases for one image. The engine
// quiesces both pools itself on completion and on ordinary failure; only an
// interruption leaves them running, for the orchestrator's immediate shutdown.
func (e *Engine) Run(ctx context.Context, req *Request) error {
	err := e.generate(ctx, req)
	if ferrors.KindOf(err) != ferrors.KindInterrupt {
		req.Analysis.Shutdown()
		req.Compilation.Shutdown()
	}
	return err
}

func (e *Engine) generate(ctx context.Context, req *Request) error {
	if err := e.runPhase(ctx, "analysis", req.Analysis, req, e.analyzeEntryPoint); err != nil {
		return err
	}
	if err := e.runPhase(ctx, "compilation", req.Compilation, req, e.compileEntryPoint); err != nil {
		return err
	}
	return e.writeManifest(req)
}

// runPhase fans the per-entry-point work out onto the phase pool and waits
// for it, checking for cooperative interruption at the phase boundary.
func (e *Engine) runPhase(ctx context.Context, phase string, pool *executor.Pool, req *Request,
	work func(*Request, *entrypoint.Descriptor) error) error {
	if err := e.checkInterrupt(ctx); err != nil {
		return err
	}
	start := time.Now()
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for _, ep := range req.EntryPoints {
		wg.Add(1)
		task := func(taskCtx context.Context) {
			defer wg.Done()
			if taskCtx.Err() != nil || e.interrupted.Load() {
				return
			}
			if err := work(req, ep); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			return ferrors.WrapAnalysis(err, "Failed to schedule %s work for entry point '%s.%s'.", phase, ep.Class, ep.Method)
		}
	}
	wg.Wait()
	e.recorder.ObservePhaseDuration(phase, time.Since(start))
	slog.Debug("Phase finished", logfields.Phase(phase), slog.Int("entry_points", len(req.EntryPoints)))

	if err := e.checkInterrupt(ctx); err != nil {
		return err
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return ferrors.NewAggregate(errs)
	}
}

func (e *Engine) checkInterrupt(ctx context.Context) error {
	if e.interrupted.Load() || ctx.Err() != nil {
		return ferrors.Interrupt("image building interrupted")
	}
	return nil
}

// analyzeEntryPoint verifies the invariants every resolved descriptor must
// hold before code generation may rely on them.
func (e *Engine) analyzeEntryPoint(req *Request, ep *entrypoint.Descriptor) error {
	if ep.Shape == entrypoint.WrappedJavaShape && ep.Support == nil {
		return ferrors.Analysisf("Wrapped entry point '%s.%s' has no captured main method.", ep.Class, ep.Method)
	}
	if req.ImageKind.Executable() && req.MainEntryPoint == nil {
		return ferrors.Analysisf("Executable image '%s' has no main entry point.", req.ImageName)
	}
	return nil
}

func (e *Engine) compileEntryPoint(_ *Request, ep *entrypoint.Descriptor) error {
	// code generation placeholder: the descriptor is fully validated here
	if ep.Entry.Name == "" {
		return ferrors.Analysisf("Entry point '%s.%s' has no effective entry method.", ep.Class, ep.Method)
	}
	return nil
}

func (e *Engine) writeManifest(req *Request) error {
	m := imageManifest{
		ImageName:    req.ImageName,
		ImageKind:    string(req.ImageKind),
		Substitution: req.Substitution,
		Options:      req.RuntimeOptionNames,
	}
	for _, ep := range req.EntryPoints {
		m.EntryPoints = append(m.EntryPoints, manifestEntry{Class: ep.Class, Method: ep.Method, Shape: string(ep.Shape)})
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode image manifest: %w", err)
	}
	path := filepath.Join(e.outputDir, req.ImageName+".manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapAnalysis(err, "Failed to write image manifest '%s'.", path)
	}
	return nil
}
