// Package logging provides leveled, optionally colored logging with an
// optional append-only file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/tidyup/internal/config"
	"github.com/backmassage/tidyup/internal/term"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	verbosity int
	file      *os.File
	filePath  string
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return NewLoggerTo(cfg, os.Stdout, os.Stderr)
}

// NewLoggerTo is NewLogger with explicit console writers. ERROR lines go to
// errOut, everything else to out.
func NewLoggerTo(cfg *config.Config, out, errOut io.Writer) (*Logger, error) {
	term.ConfigureFor(out, cfg.ColorMode)

	l := &Logger{
		out:       out,
		errOut:    errOut,
		verbosity: cfg.Verbosity,
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.filePath = cfg.LogFile
	}
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Verbosity returns the configured verbosity level (0-3).
func (l *Logger) Verbosity() int { return l.verbosity }

func (l *Logger) line(level string, style lipgloss.Style, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	plain := ts + " [" + level + "] " + text + "\n"
	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	if term.Enabled() {
		_, _ = io.WriteString(out, ts+" "+style.Render("["+level+"]")+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to the error writer.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbosity is at least
// config.VerbosityDebug; no-op otherwise.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity < config.VerbosityDebug {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
