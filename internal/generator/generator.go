// Package generator defines the boundary to the image generation engine: the
// one synchronous delegated call the orchestrator blocks on during Running,
// and the cooperative cancellation hook.
package generator

import (
	"context"

	"git.home.luguber.info/inful/imageforge/internal/config"
	"git.home.luguber.info/inful/imageforge/internal/entrypoint"
	"git.home.luguber.info/inful/imageforge/internal/executor"
)

// Request carries everything the engine needs for one image build.
type Request struct {
	// EntryPoints are all exported entry points of the image.
	EntryPoints []*entrypoint.Descriptor
	// MainEntryPoint is the resolved main entry, nil for non-executable kinds.
	MainEntryPoint *entrypoint.Descriptor
	// MainSupport is the captured Java-level main for wrapped descriptors.
	MainSupport *entrypoint.MainSupport

	ImageName string
	ImageKind config.ImageKind

	// Substitution names the substitution processor; "identity" by default.
	Substitution string

	Analysis    *executor.Pool
	Compilation *executor.Pool

	RuntimeOptionNames []string
}

// Generator performs the actual analysis and compilation. Run may fail with
// any member of the closed failure taxonomy, including the cooperative
// interruption signal after InterruptBuild was called.
type Generator interface {
	Run(ctx context.Context, req *Request) error

	// InterruptBuild requests cooperative cancellation. It may be called
	// from any goroutine, at any time, any number of times.
	InterruptBuild()
}

// SubstitutionIdentity is the default substitution processor name.
const SubstitutionIdentity = "identity"
