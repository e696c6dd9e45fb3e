// Package hostcheck validates host preconditions before any build resource is
// allocated: runtime version, CPU architecture and operating system.
package hostcheck

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/imageforge/internal/report"
)

// IgnoreRuntimeCheckEnv is the escape hatch that skips the runtime version
// check, for running against runtimes that are newer than the tested set.
const IgnoreRuntimeCheckEnv = "IMAGEFORGE_IGNORE_RUNTIME_CHECK"

// minSupportedMinor is the lowest go1.x minor the builder is tested against.
const minSupportedMinor = 24

var supportedOS = []string{"linux", "darwin", "windows"}

// Checker runs the ordered host precondition checks. The zero fields default
// to the live runtime values; tests override them.
type Checker struct {
	rep *report.Reporter

	goos           string
	goarch         string
	runtimeVersion string
	ignoreVersion  bool
}

// New creates a checker bound to the live host.
func New(rep *report.Reporter) *Checker {
	return &Checker{
		rep:            rep,
		goos:           runtime.GOOS,
		goarch:         runtime.GOARCH,
		runtimeVersion: runtime.Version(),
		ignoreVersion:  os.Getenv(IgnoreRuntimeCheckEnv) == "true",
	}
}

// Validate runs the checks in order and returns whether the build may
// proceed. A failed version or OS check aborts; a failed architecture check
// only warns and lets the build continue.
func (c *Checker) Validate() bool {
	if !c.validRuntimeVersion() {
		c.rep.ToolError(fmt.Sprintf("supports only go1.%d or later. Detected runtime version is: %s",
			minSupportedMinor, c.runtimeVersion))
		return false
	}
	if !c.validArchitecture() {
		c.rep.ToolError("runs only on architecture amd64. Detected architecture: " + c.goarch)
	}
	if !c.validOperatingSystem() {
		c.rep.ToolError("runs on Linux, Mac OS X and Windows only. Detected OS: " + c.goos)
		return false
	}
	return true
}

func (c *Checker) validRuntimeVersion() bool {
	if c.ignoreVersion {
		return true
	}
	minor, ok := parseMinor(c.runtimeVersion)
	return ok && minor >= minSupportedMinor
}

func (c *Checker) validArchitecture() bool {
	return c.goarch == "amd64"
}

func (c *Checker) validOperatingSystem() bool {
	for _, os := range supportedOS {
		if c.goos == os {
			return true
		}
	}
	return false
}

// parseMinor extracts the minor version from strings like "go1.24.11".
func parseMinor(version string) (int, bool) {
	rest, found := strings.CutPrefix(version, "go1.")
	if !found {
		return 0, false
	}
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	minor, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return minor, true
}
