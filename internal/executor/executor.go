// Package executor provides the two bounded worker pools that back the
// analysis and compilation phases. Both pools support an immediate
// abandon-everything shutdown mode used exclusively on interruption.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// queueCapacity bounds the number of queued-but-not-running tasks per pool.
const queueCapacity = 1024

// Task is one unit of phase work. The context is cancelled on immediate
// shutdown; tasks are expected to observe it.
type Task func(ctx context.Context)

// Pool is a bounded-concurrency task executor.
type Pool struct {
	name    string
	workers int

	tasks  chan Task
	stop   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.RWMutex
	closed     bool
	stopOnce   sync.Once
	terminated atomic.Bool
}

// NewPool creates a pool with the given maximum concurrency and starts its
// workers. A non-positive maximum defaults to the number of CPUs.
func NewPool(name string, maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:    name,
		workers: maxWorkers,
		tasks:   make(chan Task, queueCapacity),
		stop:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	for range maxWorkers {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			// immediate shutdown dominates the race against dequeued work
			select {
			case <-p.stop:
				return
			default:
			}
			task(p.ctx)
		}
	}
}

// Submit queues a task for execution. It fails if the pool is shut down or
// the queue is full.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.terminated.Load() {
		return fmt.Errorf("executor %s is shut down", p.name)
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return fmt.Errorf("executor %s queue is full", p.name)
	}
}

// Shutdown stops accepting tasks, runs everything already queued, and waits
// for the workers to finish. Used on the normal completion path.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// ShutdownNow abandons all queued work immediately and cancels the context
// seen by running tasks. It does not wait for them; in-flight tasks race
// against the cancellation but no new work ever starts.
func (p *Pool) ShutdownNow() {
	p.stopOnce.Do(func() {
		p.terminated.Store(true)
		p.cancel()
		close(p.stop)
		slog.Debug("Executor shut down immediately", "executor", p.name)
	})
}

// Terminated reports whether the pool was shut down in immediate mode.
func (p *Pool) Terminated() bool { return p.terminated.Load() }

// Workers returns the configured maximum concurrency.
func (p *Pool) Workers() int { return p.workers }

// Pair bundles the analysis and compilation executors owned by one build.
type Pair struct {
	Analysis    *Pool
	Compilation *Pool
}

// NewPair builds the two independently sized phase executors.
func NewPair(analysisThreads, compilationThreads int) *Pair {
	return &Pair{
		Analysis:    NewPool("analysis", analysisThreads),
		Compilation: NewPool("compilation", compilationThreads),
	}
}

// ShutdownNow immediately shuts down both executors.
func (p *Pair) ShutdownNow() {
	p.Analysis.ShutdownNow()
	p.Compilation.ShutdownNow()
}
