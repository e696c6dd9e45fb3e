package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

func newCapture() (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return New(out, errOut), out, errOut
}

func TestInfoGoesToStdout(t *testing.T) {
	r, out, errOut := newCapture()
	r.Info("user requested stop")
	assert.Equal(t, "Info: user requested stop\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestClassifiedErrorPrintsEveryMessage(t *testing.T) {
	r, _, errOut := newCapture()
	r.ClassifiedError(ferrors.Configuration("no image name", "use -H:Name"))
	lines := strings.Split(strings.TrimRight(errOut.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Error: no image name", lines[0])
	assert.Equal(t, "Error: use -H:Name", lines[1])
	assert.Contains(t, lines[2], StackTraceFlag)
}

func TestClassifiedErrorVerboseDumpsChain(t *testing.T) {
	r, _, errOut := newCapture()
	r.EnableStackTraces(true)
	cause := errors.New("underlying parse failure")
	r.ClassifiedError(ferrors.WrapConfiguration(cause, "bad option"))
	s := errOut.String()
	assert.Contains(t, s, "Error: bad option")
	assert.Contains(t, s, "caused by: underlying parse failure")
	assert.NotContains(t, s, StackTraceFlag)
}

func TestFatalErrorPrefix(t *testing.T) {
	r, _, errOut := newCapture()
	r.FatalError(errors.New("unexpected crash"))
	assert.True(t, strings.HasPrefix(errOut.String(), "Fatal error: unexpected crash"))
}

func TestAggregateWithClassifiedSubFailures(t *testing.T) {
	r, _, errOut := newCapture()
	agg := ferrors.NewAggregate([]error{
		ferrors.Configurationf("bad entry a"),
		ferrors.Configurationf("bad entry b"),
	})
	classified := r.AggregateError(agg)
	require.True(t, classified)
	s := errOut.String()
	assert.Contains(t, s, "Error: bad entry a")
	assert.Contains(t, s, "Error: bad entry b")
	assert.NotContains(t, s, "fatal errors detected")
	assert.NotContains(t, s, "Fatal error:")
}

func TestAggregateAllUnclassifiedDumpsWithHeader(t *testing.T) {
	r, _, errOut := newCapture()
	agg := ferrors.NewAggregate([]error{
		errors.New("worker 1 crashed"),
		errors.New("worker 2 crashed"),
	})
	classified := r.AggregateError(agg)
	require.False(t, classified)
	s := errOut.String()
	assert.Contains(t, s, "2 fatal errors detected:")
	assert.Contains(t, s, "Fatal error: worker 1 crashed")
	assert.Contains(t, s, "Fatal error: worker 2 crashed")
}

func TestAggregateSingleUnclassifiedHasNoHeader(t *testing.T) {
	r, _, errOut := newCapture()
	agg := ferrors.NewAggregate([]error{errors.New("lone crash")})
	r.AggregateError(agg)
	assert.NotContains(t, errOut.String(), "fatal errors detected")
	assert.Contains(t, errOut.String(), "Fatal error: lone crash")
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 0, ExitCodeFor(nil))
	assert.Equal(t, 0, ExitCodeFor(ferrors.Interrupt("stop")))
	assert.Equal(t, 1, ExitCodeFor(ferrors.Configurationf("x")))
	assert.Equal(t, 1, ExitCodeFor(errors.New("x")))
}
