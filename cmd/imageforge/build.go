package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/imageforge/internal/builder"
	"git.home.luguber.info/inful/imageforge/internal/cliargs"
	"git.home.luguber.info/inful/imageforge/internal/config"
	"git.home.luguber.info/inful/imageforge/internal/generator"
	"git.home.luguber.info/inful/imageforge/internal/hostcheck"
	"git.home.luguber.info/inful/imageforge/internal/logfields"
	"git.home.luguber.info/inful/imageforge/internal/metrics"
	"git.home.luguber.info/inful/imageforge/internal/report"
	"git.home.luguber.info/inful/imageforge/internal/watchdog"
)

// BuildCmd drives one image build. The raw argument vector is passed through
// untouched so generator options like -imagecp and -H:Name keep their native
// shape instead of being forced into flag syntax.
type BuildCmd struct {
	Args []string `arg:"" optional:"" name:"generator-args" help:"Raw generator arguments (-imagecp, -watchpid, -H: options)"`

	exitStatus int
}

func (b *BuildCmd) Run(root *CLI) error {
	b.exitStatus = b.run(root)
	return nil
}

func (b *BuildCmd) run(root *CLI) int {
	rep := report.Default()

	// Classpath and watch pid are consumed before general option parsing so
	// a malformed tail can never hide them.
	entries, rest, err := cliargs.ExtractClasspath(b.Args)
	if err != nil {
		rep.ClassifiedError(err)
		return 1
	}
	pid, rest, err := cliargs.ExtractWatchPid(rest)
	if err != nil {
		rep.ClassifiedError(err)
		return 1
	}

	recorder := metrics.NewPrometheusRecorder(nil)

	if pid != cliargs.WatchPidNone {
		wd, err := watchdog.New(pid, watchdog.WithRecorder(recorder))
		if err != nil {
			rep.ClassifiedError(err)
			return 1
		}
		wd.Start()
		defer wd.Stop()
		go superviseWatchdog(wd)
		slog.Debug("Watching driver process", logfields.Pid(pid))
	}

	defaults, err := config.LoadDefaults(root.Defaults, false)
	if err != nil {
		rep.ClassifiedError(err)
		return 1
	}

	registry := builder.NewRegistry()
	orch := builder.New(rep,
		builder.WithValidator(hostcheck.New(rep)),
		builder.WithDefaults(defaults),
		builder.WithRegistry(registry),
		builder.WithRecorder(recorder),
		builder.WithGeneratorFactory(func(_ *config.Config) generator.Generator {
			return generator.NewEngine(".", recorder)
		}),
	)

	// SIGINT/SIGTERM request cooperative interruption; the generator winds
	// down at the next phase boundary and the build exits with status 0.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			registry.InterruptActive()
		}
	}()

	status := orch.Build(context.Background(), rest, entries)
	if status != 0 {
		// Collapse every failure to 1 so callers see a stable contract.
		status = 1
	}

	if root.Verbose {
		if err := recorder.Dump(os.Stderr); err != nil {
			slog.Debug("Dumping build metrics", logfields.Error(err))
		}
	}
	return status
}

// superviseWatchdog owns the hard-exit decision: the watchdog only reports
// that the watched process is gone, it never terminates anything itself.
func superviseWatchdog(wd *watchdog.Watchdog) {
	reason := <-wd.Gone()
	slog.Error("Watched process disappeared, terminating build", slog.String("reason", reason))
	os.Exit(1)
}
