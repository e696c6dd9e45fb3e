// Package version holds the build-time identification of the tool, injected
// via ldflags:
//
//	go build -ldflags "\
//	  -X git.home.luguber.info/inful/imageforge/internal/version.Version=v1.2.0 \
//	  -X git.home.luguber.info/inful/imageforge/internal/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X git.home.luguber.info/inful/imageforge/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info renders the line printed by --version. Commit and build time are only
// shown when the build actually injected them.
func Info() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
