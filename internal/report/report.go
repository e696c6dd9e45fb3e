// Package report renders user-facing build output and maps terminal failures
// to the process exit contract. Informational lines go to stdout prefixed
// "Info: ", error lines to stderr prefixed "Error: ". A full diagnostic trace
// is printed only when stack trace reporting is enabled; otherwise a one-line
// hint names the flag that enables it.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

// StackTraceFlag is the hosted option that enables full diagnostic traces.
const StackTraceFlag = "-H:+ReportExceptionStackTraces"

// Reporter writes user-facing build output.
type Reporter struct {
	out         io.Writer
	errOut      io.Writer
	stackTraces bool
}

// New creates a reporter writing to the given streams.
func New(out, errOut io.Writer) *Reporter {
	return &Reporter{out: out, errOut: errOut}
}

// Default returns a reporter bound to os.Stdout and os.Stderr.
func Default() *Reporter {
	return New(os.Stdout, os.Stderr)
}

// EnableStackTraces turns on full diagnostic traces for classified errors.
func (r *Reporter) EnableStackTraces(on bool) { r.stackTraces = on }

// Info prints an informational message to stdout.
func (r *Reporter) Info(msg string) {
	fmt.Fprintf(r.out, "Info: %s\n", msg)
}

// UserError prints a single user-facing error line to stderr.
func (r *Reporter) UserError(msg string) {
	fmt.Fprintf(r.errOut, "Error: %s\n", msg)
}

// ToolError prints a user-facing error line prefixed with the tool name,
// used for host environment complaints.
func (r *Reporter) ToolError(msg string) {
	r.UserError("imageforge " + msg)
}

// ClassifiedError reports a configuration or analysis failure: one Error line
// per message, then either the full cause chain or a hint naming the flag
// that would have printed it.
func (r *Reporter) ClassifiedError(err error) {
	if be, ok := ferrors.AsBuildError(err); ok {
		for _, msg := range be.Messages() {
			r.UserError(msg)
		}
	} else {
		r.UserError(err.Error())
	}
	if r.stackTraces {
		r.printChain(err)
	} else {
		r.UserError(fmt.Sprintf("Use '%s' to print stacktrace of underlying exception", StackTraceFlag))
	}
}

// FatalError dumps an unclassified failure with its full cause chain.
func (r *Reporter) FatalError(err error) {
	fmt.Fprintf(r.errOut, "Fatal error: %v\n", err)
	r.printChain(err)
}

// AggregateError reports failures collected from parallel phase tasks. Each
// sub-failure is classified individually: if any is classified, all classified
// ones are reported as user errors and no full dump happens. If none is
// classified, every sub-failure is dumped as fatal, preceded by a count header
// when there is more than one.
//
// The returned bool reports whether at least one sub-failure was classified.
func (r *Reporter) AggregateError(agg *ferrors.AggregateError) bool {
	hasClassified := false
	for _, sub := range agg.Errors() {
		if ferrors.IsClassified(sub) {
			r.ClassifiedError(sub)
			hasClassified = true
		}
	}
	if hasClassified {
		return true
	}
	if len(agg.Errors()) > 1 {
		fmt.Fprintf(r.errOut, "%d fatal errors detected:\n", len(agg.Errors()))
	}
	for _, sub := range agg.Errors() {
		r.FatalError(sub)
	}
	return false
}

// printChain writes the wrapped cause chain below the reported error,
// the closest diagnostic analogue to a stack trace for error values.
func (r *Reporter) printChain(err error) {
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(r.errOut, "\tcaused by: %v\n", cause)
	}
}

// ExitCodeFor maps an orchestrator failure to the process exit contract:
// 0 for success or cooperative interruption, 1 for everything else.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if ferrors.KindOf(err) == ferrors.KindInterrupt {
		return 0
	}
	return 1
}
