// Package config holds runtime configuration: defaults, CLI flag parsing,
// option layering (flags, environment, config file), pattern-file discovery,
// and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ConflictPolicy decides what a rename does when its destination name is
// already taken, either on disk or by an earlier rename in the same run.
type ConflictPolicy string

const (
	ConflictSkip      ConflictPolicy = "skip"      // Leave the entry alone and report it (default).
	ConflictOverwrite ConflictPolicy = "overwrite" // Let the filesystem replace the destination.
	ConflictSuffix    ConflictPolicy = "suffix"    // Append " - dupN" before the extension.
)

// Verbosity thresholds for report output.
const (
	VerbosityTree   = 1 // Render the remaining-entries tree.
	VerbosityDebug  = 2 // Emit DEBUG log lines.
	VerbosityLabels = 3 // Annotate removals with the matching pattern or digest.
)

// Sentinel errors for target path validation.
var (
	ErrTargetNotFound = errors.New("target path not found")
	ErrTargetNotDir   = errors.New("target path is not a directory")
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by the cobra command built in [NewCommand], and finally by
// [ApplyOptions] from the layered viper store.
type Config struct {
	// Paths.
	TargetPath string `validate:"required"`
	ConfigFile string // Explicit pattern file (-c); empty means search.

	// Feature toggles consumed by the walker and executor.
	Remove         bool // Default: true. Cleared by --no-rm.
	Rename         bool // Default: true. Cleared by --no-rename.
	PruneEmptyDirs bool // Default: false. Only effective together with Remove.
	SkipTmp        bool // Default: true. Ignore ".tmp" directories entirely.
	Commit         bool // Apply queued mutations instead of previewing.

	OnConflict ConflictPolicy `validate:"oneof=skip overwrite suffix"`

	// Display and logging.
	Verbosity int       `validate:"gte=0,lte=3"`
	ColorMode ColorMode `validate:"oneof=auto always never"`
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Patterns decoded from the pattern file (empty when none was found).
	Patterns PatternConfig
	// PatternFileUsed is the resolved pattern file path, empty when none.
	PatternFileUsed string
}

// DefaultConfig returns a Config with defaults matching the original cleanup
// tool: remove and rename enabled, preview only, .tmp directories skipped.
func DefaultConfig() Config {
	return Config{
		TargetPath:     ".",
		Remove:         true,
		Rename:         true,
		PruneEmptyDirs: false,
		SkipTmp:        true,
		Commit:         false,
		OnConflict:     ConflictSkip,
		Verbosity:      0,
		ColorMode:      ColorAuto,
		CheckOnly:      false,
	}
}

// clampVerbosity caps repeated -v, and numeric values from the environment
// or the pattern file, at VerbosityLabels.
func clampVerbosity(cfg *Config) {
	if cfg.Verbosity > VerbosityLabels {
		cfg.Verbosity = VerbosityLabels
	}
	if cfg.Verbosity < 0 {
		cfg.Verbosity = 0
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" && path != "" {
		return "/"
	}
	return trimmed
}

// validate caches struct metadata across calls.
var validate = validator.New()

// Validate checks required fields, enum values, and the verbosity range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describeFieldError(verrs[0])
		}
		return err
	}
	return nil
}

// describeFieldError turns the first validator failure into a message that
// names the flag the user would change.
func describeFieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "TargetPath":
		return errors.New("need a target path")
	case "OnConflict":
		return fmt.Errorf("invalid conflict policy %q (use 'skip', 'overwrite' or 'suffix')", fe.Value())
	case "Verbosity":
		return fmt.Errorf("verbosity must be between 0 and 3 (got %v)", fe.Value())
	case "ColorMode":
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", fe.Value())
	default:
		return fmt.Errorf("invalid %s: %v", fe.Field(), fe.Value())
	}
}

// ValidateTarget ensures the target path exists and is a directory. The
// walker never creates the target, so a missing path is fatal.
func ValidateTarget(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTargetNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrTargetNotDir, path)
	}
	return nil
}
