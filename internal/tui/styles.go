// Package tui provides terminal user interface components for stackscope:
// the interactive stack viewer and the styled/JSON output helpers the CLI
// commands print through.
//
// All colors use AdaptiveColor for light/dark terminal support. Color output
// honors the NO_COLOR environment variable and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states and primary values.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states and passed checks.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warning states.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for error states and failed checks.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for dim/inactive states and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}
)

// Viewer chrome styles.
//
//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// HeaderStyle renders the viewer's top line.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// HeaderMetaStyle renders the dimmed metadata next to the file name.
	HeaderMetaStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StatusStyle renders the viewer's bottom status line.
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// NoticeStyle renders transient notices (paused, too small, etc).
	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor for
// light/dark terminal support.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
	}
}

// HasColorSupport returns true if stdout supports color output.
// Returns false when NO_COLOR is set, TERM=dumb, or stdout is not a terminal.
func HasColorSupport() bool {
	p := colorprofile.Detect(os.Stdout, os.Environ())
	return p != colorprofile.Ascii && p != colorprofile.NoTTY
}

// ResolveColorMode maps a viewer color mode to a concrete on/off decision.
// "always" and "never" force the answer; anything else probes the terminal.
func ResolveColorMode(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return HasColorSupport()
	}
}
