package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyInvocation = "invocation"
	KeyImage      = "image"
	KeyKind       = "kind"
	KeyState      = "state"
	KeyPhase      = "phase"
	KeyPid        = "pid"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Invocation(id string) slog.Attr  { return slog.String(KeyInvocation, id) }
func Image(name string) slog.Attr     { return slog.String(KeyImage, name) }
func Kind(kind string) slog.Attr      { return slog.String(KeyKind, kind) }
func State(state string) slog.Attr    { return slog.String(KeyState, state) }
func Phase(phase string) slog.Attr    { return slog.String(KeyPhase, phase) }
func Pid(pid int) slog.Attr           { return slog.Int(KeyPid, pid) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
