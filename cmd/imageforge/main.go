package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/imageforge/internal/version"
)

// CLI definition & global flags.
type CLI struct {
	Defaults string           `short:"c" help:"YAML defaults file for hosted options" default:"imageforge.yaml"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" passthrough:"" help:"Build one native image from the given generator arguments"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func main() {
	// optional .env for escape hatches like IMAGEFORGE_IGNORE_RUNTIME_CHECK
	_ = godotenv.Load()

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("imageforge"),
		kong.Description("Ahead-of-time native image build tool"),
		kong.Vars{"version": version.Info()},
	)
	if err := ctx.Run(cli); err != nil {
		slog.Error("Build invocation failed", "error", err)
		os.Exit(1)
	}
	os.Exit(cli.Build.exitStatus)
}
