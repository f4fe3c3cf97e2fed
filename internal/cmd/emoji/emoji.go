// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols shared by command output.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks a non-fatal problem, e.g. an override that matched nothing.
	Warning = "!"

	// Info marks informational messages.
	Info = "i"
)
