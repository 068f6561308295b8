// Package check implements --check: it reports which pattern file was
// found, whether every pattern compiles, and whether the target is usable,
// without walking the tree.
package check

import (
	"strings"

	"github.com/backmassage/tidyup/internal/config"
	"github.com/backmassage/tidyup/internal/patterns"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck logs the diagnostics and reports whether everything passed.
// A missing pattern file is a warning, not a failure.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== tidyup check ===")

	ok := checkPatterns(cfg, log)
	if !checkTarget(cfg, log) {
		ok = false
	}

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("Check failed")
	}
	return ok
}

func checkPatterns(cfg *config.Config, log Logger) bool {
	if cfg.PatternFileUsed == "" {
		log.Warn("No %s.yml found; nothing will match", config.PatternFileName)
		log.Info("Searched: %s", strings.Join(config.SearchPaths(cfg.TargetPath), ", "))
	} else {
		log.Success("Pattern file: %s", cfg.PatternFileUsed)
	}

	set, err := patterns.Compile(cfg.Patterns)
	if err != nil {
		log.Error("Patterns: %v", err)
		return false
	}

	c := set.Counts()
	log.Info("  remove:      %d glob, %d regex", c.Globs, c.Regexes)
	log.Info("  remove_hash: %d digest(s), files over %d bytes are never hashed", c.Digests, patterns.HashSizeLimit)
	log.Info("  cleanup:     %d regex", c.Cleanup)
	return true
}

func checkTarget(cfg *config.Config, log Logger) bool {
	if err := config.ValidateTarget(cfg.TargetPath); err != nil {
		log.Error("Target: %v", err)
		return false
	}
	log.Success("Target: %s", cfg.TargetPath)
	if cfg.Commit {
		log.Warn("--commit has no effect with --check")
	}
	return true
}
