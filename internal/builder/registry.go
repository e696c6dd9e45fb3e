package builder

import "sync"

// Registry is the process-scoped registration of the active build. External
// cancellers look the active orchestrator up here instead of reaching into
// ambient static state. It is cleared unconditionally on every terminal
// transition.
type Registry struct {
	mu     sync.Mutex
	active *Orchestrator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) register(o *Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = o
}

func (r *Registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = nil
}

// Active returns the currently registered build, if any.
func (r *Registry) Active() (*Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != nil
}

// InterruptActive forwards a cancellation request to the registered build.
// It is a no-op when no build is active.
func (r *Registry) InterruptActive() {
	if o, ok := r.Active(); ok {
		o.InterruptBuild()
	}
}
