package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed tag carried on every classified failure value.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindAnalysis      Kind = "analysis"
	KindAggregate     Kind = "aggregate"
	KindInterrupt     Kind = "interrupt"
	KindFatal         Kind = "fatal"
)

// BuildError is a classified failure with a kind tag, an ordered list of
// user-facing messages, and an optional wrapped cause. It is constructed at
// the point a failure is detected and never mutated afterwards.
type BuildError struct {
	kind     Kind
	messages []string
	cause    error
}

// Error implements the standard error interface.
func (e *BuildError) Error() string {
	msg := strings.Join(e.messages, "; ")
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kind, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.kind, msg)
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *BuildError) Unwrap() error { return e.cause }

// Kind returns the taxonomy tag.
func (e *BuildError) Kind() Kind { return e.kind }

// Messages returns the ordered user-facing message lines.
func (e *BuildError) Messages() []string { return e.messages }

// Cause returns the wrapped cause, if any.
func (e *BuildError) Cause() error { return e.cause }

// Configuration creates a configuration error from one or more message lines.
func Configuration(messages ...string) *BuildError {
	return &BuildError{kind: KindConfiguration, messages: messages}
}

// Configurationf creates a single-message configuration error.
func Configurationf(format string, args ...any) *BuildError {
	return &BuildError{kind: KindConfiguration, messages: []string{fmt.Sprintf(format, args...)}}
}

// Analysisf creates a single-message analysis error.
func Analysisf(format string, args ...any) *BuildError {
	return &BuildError{kind: KindAnalysis, messages: []string{fmt.Sprintf(format, args...)}}
}

// WrapConfiguration wraps an existing error as a configuration failure.
func WrapConfiguration(cause error, format string, args ...any) *BuildError {
	return &BuildError{kind: KindConfiguration, messages: []string{fmt.Sprintf(format, args...)}, cause: cause}
}

// WrapAnalysis wraps an existing error as an analysis failure.
func WrapAnalysis(cause error, format string, args ...any) *BuildError {
	return &BuildError{kind: KindAnalysis, messages: []string{fmt.Sprintf(format, args...)}, cause: cause}
}

// AggregateError bundles multiple independently raised failures collected
// from concurrently executed phase tasks. Each sub-failure is classified
// individually by the reporter.
type AggregateError struct {
	errs []error
}

// NewAggregate creates an aggregate from the given sub-failures.
func NewAggregate(errs []error) *AggregateError {
	return &AggregateError{errs: errs}
}

// Errors returns the collected sub-failures in submission order.
func (e *AggregateError) Errors() []error { return e.errs }

func (e *AggregateError) Error() string {
	return fmt.Sprintf("[%s] %d failures during parallel execution", KindAggregate, len(e.errs))
}

// Kind returns KindAggregate.
func (e *AggregateError) Kind() Kind { return KindAggregate }

// InterruptError is the cooperative interruption signal: an in-band request
// for early, successful-looking termination. It is not an error in the exit
// contract sense; builds terminated by it exit with status 0.
type InterruptError struct {
	reason string
}

// Interrupt creates an interruption signal. An empty reason means the signal
// carries no user-facing message.
func Interrupt(reason string) *InterruptError {
	return &InterruptError{reason: reason}
}

// Reason returns the optional interruption reason.
func (e *InterruptError) Reason() (string, bool) { return e.reason, e.reason != "" }

func (e *InterruptError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("[%s] %s", KindInterrupt, e.reason)
	}
	return fmt.Sprintf("[%s] image building interrupted", KindInterrupt)
}

// Kind returns KindInterrupt.
func (e *InterruptError) Kind() Kind { return KindInterrupt }

// AsBuildError attempts to extract a classified BuildError from the chain.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// AsAggregate attempts to extract an AggregateError from the chain.
func AsAggregate(err error) (*AggregateError, bool) {
	var ae *AggregateError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// AsInterrupt attempts to extract an InterruptError from the chain.
func AsInterrupt(err error) (*InterruptError, bool) {
	var ie *InterruptError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// KindOf classifies an arbitrary error into the closed taxonomy. Anything
// that carries no tag is KindFatal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if _, ok := AsInterrupt(err); ok {
		return KindInterrupt
	}
	if _, ok := AsAggregate(err); ok {
		return KindAggregate
	}
	if be, ok := AsBuildError(err); ok {
		return be.Kind()
	}
	return KindFatal
}

// IsClassified reports whether err carries a user-reportable classification
// (configuration or analysis). Aggregates and interrupts have their own
// handling paths; fatal errors are unclassified by definition.
func IsClassified(err error) bool {
	k := KindOf(err)
	return k == KindConfiguration || k == KindAnalysis
}
