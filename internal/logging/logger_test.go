package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/tidyup/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	cfg.ColorMode = config.ColorNever
	var out, errOut bytes.Buffer
	l, err := NewLoggerTo(&cfg, &out, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
	l.Error("broken")

	if !strings.Contains(out.String(), "[INFO] test message") {
		t.Errorf("stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] broken") {
		t.Errorf("stderr: %q", errOut.String())
	}
	if strings.Contains(out.String(), "broken") {
		t.Error("ERROR lines should not go to stdout")
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "tidyup.log")
	l, err := NewLoggerTo(&cfg, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestDebug_GatedByVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
	}
	for _, tt := range tests {
		cfg := config.DefaultConfig()
		cfg.ColorMode = config.ColorNever
		cfg.Verbosity = tt.verbosity
		var out bytes.Buffer
		l, err := NewLoggerTo(&cfg, &out, &bytes.Buffer{})
		if err != nil {
			t.Fatal(err)
		}
		l.Debug("details %d", 42)
		got := strings.Contains(out.String(), "[DEBUG] details 42")
		if got != tt.want {
			t.Errorf("verbosity %d: debug emitted = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}
