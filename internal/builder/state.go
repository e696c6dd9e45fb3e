package builder

// State names one position in the build lifecycle state machine.
type State string

const (
	StateIdle                State = "Idle"
	StateValidating          State = "Validating"
	StateConfiguring         State = "Configuring"
	StateResolvingEntryPoint State = "ResolvingEntryPoint"
	StateRunning             State = "Running"
	StateCompleted           State = "Completed"
	StateInterrupted         State = "Interrupted"
	StateFailed              State = "Failed"
)

// Terminal reports whether the state ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateInterrupted || s == StateFailed
}
