package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft purple #A78BFA): file paths, entity ids
// - Muted (gray): secondary info, pointers
var (
	accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	muted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// FilePath returns an accent-styled file path.
func FilePath(path string) string {
	if !colorEnabled {
		return path
	}
	return accent.Render(path)
}

// EntityID returns an accent-styled entity identifier.
func EntityID(id string) string {
	if !colorEnabled {
		return id
	}
	return accent.Render(id)
}

// Pointer returns a muted instance pointer.
func Pointer(p string) string {
	if !colorEnabled {
		return p
	}
	return muted.Render(p)
}

// Hint returns muted hint text.
func Hint(msg string) string {
	if !colorEnabled {
		return msg
	}
	return muted.Render(msg)
}
