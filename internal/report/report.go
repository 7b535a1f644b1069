// Package report defines the sink the test runner emits results to, plus
// three implementations: an in-memory Recorder, a TAP stream writer and an
// adapter over Go's testing.TB.
package report

// Reporter receives assertion results and diagnostics.
type Reporter interface {
	// Pass records a named passing assertion.
	Pass(msg string)

	// Fail records a named failing assertion.
	Fail(msg string)

	// Is records an equality assertion of got against want.
	Is(got, want any, msg string)

	// Info records an informational message.
	Info(msg string)

	// Diag records a diagnostic or grouping label.
	Diag(msg string)
}

// ErrorReporter is implemented by reporters with an error-level channel for
// aggregated diagnostics.
type ErrorReporter interface {
	Error(msg string)
}

// Error emits msg at error level when r supports it, otherwise as info.
func Error(r Reporter, msg string) {
	if er, ok := r.(ErrorReporter); ok {
		er.Error(msg)
		return
	}
	r.Info(msg)
}
