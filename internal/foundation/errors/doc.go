// Package errors defines the closed failure taxonomy for the image build
// lifecycle. Every failure that reaches the orchestrator boundary carries an
// explicit Kind tag; dispatch happens on the tag, never on type hierarchies.
//
// The taxonomy is intentionally closed:
//
//   - KindConfiguration — bad CLI input or missing required configuration
//   - KindAnalysis      — internal inconsistency surfaced by the heavy phases
//   - KindAggregate     — several failures collected from parallel phase tasks
//   - KindInterrupt     — cooperative early exit, not an error (exit code 0)
//   - KindFatal         — anything unclassified, dumped with a full trace
package errors
