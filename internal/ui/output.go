// Package ui renders gtscheck's terminal output: status lines for files and
// entities, per-file warnings, and summary counts.
package ui

import "fmt"

// Status symbols prefixing result lines.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// InvalidFile renders the status line for a file that failed parsing.
func InvalidFile(path, msg string) string {
	return fmt.Sprintf("%s %s - %s", SymbolError, FilePath(path), msg)
}

// EntityFailure renders the header line for an entity carrying validation
// errors.
func EntityFailure(id, file string) string {
	return fmt.Sprintf("%s %s %s", SymbolError, EntityID(id), Hint(file))
}

// ErrorDetail renders one indented validation error under an entity header.
func ErrorDetail(instancePath, message string) string {
	return fmt.Sprintf("  %s %s", Pointer(instancePath), message)
}

// Successf renders the all-clear summary line.
func Successf(format string, args ...any) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, fmt.Sprintf(format, args...))
}

// Warningf renders an isolated per-file warning line.
func Warningf(format string, args ...any) string {
	return fmt.Sprintf("%s %s", SymbolWarning, fmt.Sprintf(format, args...))
}

// Count pluralizes a count for summary lines, e.g. "(3 errors)".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}
