// Package timer provides the simple phase timers printed during a build.
package timer

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Timer accumulates wall time for one named build phase and prints it in the
// conventional single-line format, optionally prefixed with the image name.
type Timer struct {
	mu     sync.Mutex
	name   string
	prefix string
	total  time.Duration
	out    io.Writer
}

// New creates a timer writing its report to out.
func New(name string, out io.Writer) *Timer {
	return &Timer{name: name, out: out}
}

// SetPrefix sets the image name prefix used when printing.
func (t *Timer) SetPrefix(prefix string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prefix = prefix
}

// Start begins a measurement interval and returns the stop function.
func (t *Timer) Start() func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		t.mu.Lock()
		t.total += d
		t.mu.Unlock()
	}
}

// Total returns the accumulated duration.
func (t *Timer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Print writes the one-line timing report.
func (t *Timer) Print() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.prefix != "" {
		fmt.Fprintf(t.out, "%s: [%s] %8.2f sec\n", t.prefix, t.name, t.total.Seconds())
		return
	}
	fmt.Fprintf(t.out, "[%s] %8.2f sec\n", t.name, t.total.Seconds())
}
