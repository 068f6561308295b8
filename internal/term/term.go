// Package term provides color state, lipgloss styles, and terminal detection.
//
// Styles are package-level variables because multiple packages (logging,
// display) need them for output formatting. [Configure] sets them once
// during startup; when colors are disabled every style renders plain text.
package term

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/backmassage/tidyup/internal/config"
)

// Styles used across the report and the logger. Plain until Configure runs.
var (
	Red     = lipgloss.NewStyle()
	Green   = lipgloss.NewStyle()
	Yellow  = lipgloss.NewStyle()
	Blue    = lipgloss.NewStyle()
	Cyan    = lipgloss.NewStyle()
	Magenta = lipgloss.NewStyle()
)

var enabled bool

// Configure resolves the color mode and rebuilds the package-level styles.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	ConfigureFor(os.Stdout, mode)
}

// ConfigureFor is Configure with an explicit output used for TTY detection.
func ConfigureFor(out io.Writer, mode config.ColorMode) {
	enabled = resolve(out, mode)

	r := lipgloss.NewRenderer(out)
	if enabled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	Red = r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	Green = r.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	Yellow = r.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	Blue = r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	Magenta = r.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	Cyan = r.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
}

// Enabled reports whether colors are currently active.
func Enabled() bool { return enabled }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(out io.Writer, mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		f, ok := out.(*os.File)
		return ok && IsTerminal(f) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}
