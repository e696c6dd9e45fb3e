// Package config parses the hosted option tokens that remain after the
// out-of-band arguments were extracted, and resolves them into the immutable
// per-invocation build configuration. Defaults may be preloaded from an
// optional YAML file before token parsing.
package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

// ImageKind selects the layout of the produced image.
type ImageKind string

const (
	KindExecutable    ImageKind = "EXECUTABLE"
	KindSharedLibrary ImageKind = "SHARED_LIBRARY"
)

// Executable reports whether this image kind requires a main entry point.
func (k ImageKind) Executable() bool { return k == KindExecutable }

func parseKind(value string) (ImageKind, error) {
	switch ImageKind(strings.ToUpper(value)) {
	case KindExecutable:
		return KindExecutable, nil
	case KindSharedLibrary:
		return KindSharedLibrary, nil
	default:
		return "", ferrors.Configurationf("Unknown image kind '%s'. Valid kinds are EXECUTABLE and SHARED_LIBRARY.", value)
	}
}

// Config is the resolved build configuration. It is created once per
// invocation and never mutated after parsing succeeds.
type Config struct {
	ImageName             string
	Kind                  ImageKind
	TargetClass           string
	TargetMethod          string
	MaxAnalysisThreads    int
	MaxCompilationThreads int
	ReportStackTraces     bool
	// RuntimeVersionCheck mirrors -H:±RuntimeVersionCheck. Environment
	// validation runs before option parsing, so disabling the check for the
	// current invocation still requires the override environment variable;
	// the parsed value is recorded for the image manifest.
	RuntimeVersionCheck bool
	HistoryFile         string
	RuntimeOptionNames  []string
}

// hosted option keys
const (
	keyName               = "Name"
	keyKind               = "Kind"
	keyClass              = "Class"
	keyMethod             = "Method"
	keyAnalysisThreads    = "MaxAnalysisThreads"
	keyCompilationThreads = "MaxCompilationThreads"
	keyHistoryFile        = "HistoryFile"
	flagStackTraces       = "ReportExceptionStackTraces"
	flagVersionCheck      = "RuntimeVersionCheck"
)

const optionPrefix = "-H:"

// CommandArgument renders the canonical usage hint for a hosted option,
// e.g. CommandArgument("Name", "<output-file>") -> "-H:Name=<output-file>".
func CommandArgument(key, value string) string {
	return optionPrefix + key + "=" + value
}

// ParseOptions consumes the post-extraction argument list and resolves it
// against the given defaults. Unrecognized tokens fail with a configuration
// error naming them all.
func ParseOptions(args []string, defaults Defaults) (*Config, error) {
	cfg := &Config{
		ImageName:             defaults.ImageName,
		Kind:                  KindExecutable,
		TargetMethod:          "main",
		MaxAnalysisThreads:    runtime.NumCPU(),
		MaxCompilationThreads: runtime.NumCPU(),
		RuntimeVersionCheck:   true,
		HistoryFile:           defaults.HistoryFile,
	}
	if defaults.Kind != "" {
		kind, err := parseKind(defaults.Kind)
		if err != nil {
			return nil, err
		}
		cfg.Kind = kind
	}
	if defaults.TargetMethod != "" {
		cfg.TargetMethod = defaults.TargetMethod
	}
	if defaults.MaxAnalysisThreads > 0 {
		cfg.MaxAnalysisThreads = defaults.MaxAnalysisThreads
	}
	if defaults.MaxCompilationThreads > 0 {
		cfg.MaxCompilationThreads = defaults.MaxCompilationThreads
	}

	var unknown []string
	for _, arg := range args {
		token, found := strings.CutPrefix(arg, optionPrefix)
		if !found {
			unknown = append(unknown, arg)
			continue
		}
		if err := cfg.applyToken(token, &unknown); err != nil {
			return nil, err
		}
	}
	if len(unknown) > 0 {
		return nil, ferrors.Configurationf("Unknown options: %s", strings.Join(unknown, " "))
	}
	return cfg, nil
}

func (c *Config) applyToken(token string, unknown *[]string) error {
	// boolean form: -H:+Flag / -H:-Flag
	if len(token) > 1 && (token[0] == '+' || token[0] == '-') {
		enabled := token[0] == '+'
		switch token[1:] {
		case flagStackTraces:
			c.ReportStackTraces = enabled
			c.RuntimeOptionNames = append(c.RuntimeOptionNames, flagStackTraces)
			return nil
		case flagVersionCheck:
			c.RuntimeVersionCheck = enabled
			c.RuntimeOptionNames = append(c.RuntimeOptionNames, flagVersionCheck)
			return nil
		default:
			*unknown = append(*unknown, optionPrefix+token)
			return nil
		}
	}

	key, value, found := strings.Cut(token, "=")
	if !found {
		*unknown = append(*unknown, optionPrefix+token)
		return nil
	}
	switch key {
	case keyName:
		c.ImageName = value
	case keyKind:
		kind, err := parseKind(value)
		if err != nil {
			return err
		}
		c.Kind = kind
	case keyClass:
		c.TargetClass = value
	case keyMethod:
		c.TargetMethod = value
	case keyAnalysisThreads:
		n, err := parseThreads(key, value)
		if err != nil {
			return err
		}
		c.MaxAnalysisThreads = n
	case keyCompilationThreads:
		n, err := parseThreads(key, value)
		if err != nil {
			return err
		}
		c.MaxCompilationThreads = n
	case keyHistoryFile:
		c.HistoryFile = value
	default:
		*unknown = append(*unknown, optionPrefix+token)
		return nil
	}
	c.RuntimeOptionNames = append(c.RuntimeOptionNames, key)
	return nil
}

func parseThreads(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, ferrors.Configurationf("Value of %s must be a positive integer, got '%s'.",
			CommandArgument(key, "<n>"), value)
	}
	return n, nil
}

// Validate checks the invariants that gate the transition out of the
// Configuring state.
func (c *Config) Validate() error {
	if c.ImageName == "" {
		return ferrors.Configurationf("No output file name specified. Use '%s'.",
			CommandArgument(keyName, "<output-file>"))
	}
	if c.Kind.Executable() && c.TargetClass == "" {
		return ferrors.Configurationf("Must specify main entry point class when building %s image. Use '%s'.",
			c.Kind, CommandArgument(keyClass, "<fully-qualified-class-name>"))
	}
	if c.TargetClass != "" && c.TargetMethod == "" {
		return ferrors.Configurationf("Must specify main entry point method when building %s image. Use '%s'.",
			c.Kind, CommandArgument(keyMethod, "<method-name>"))
	}
	return nil
}

// String renders a short summary for logging.
func (c *Config) String() string {
	return fmt.Sprintf("image=%s kind=%s class=%s method=%s", c.ImageName, c.Kind, c.TargetClass, c.TargetMethod)
}
