// Command tidyup is the CLI entrypoint for the tidyup directory cleaner.
//
// It parses flags and the pattern file, then either runs diagnostics
// (--check) or a single preview/commit pass over the target directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/backmassage/tidyup/internal/check"
	"github.com/backmassage/tidyup/internal/config"
	"github.com/backmassage/tidyup/internal/display"
	"github.com/backmassage/tidyup/internal/logging"
	"github.com/backmassage/tidyup/internal/patterns"
	"github.com/backmassage/tidyup/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. Parse and validation errors go straight to
	// stderr because the logger depends on the parsed config.
	cfg := config.DefaultConfig()
	code := 0
	cmd := config.NewCommand(&cfg, version+" ("+commit+")", func(cmd *cobra.Command, cfg *config.Config) error {
		log, err := logging.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Close()
		code = tidy(cmd, cfg, log)
		return nil
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tidyup: %v\n", err)
		return 1
	}
	return code
}

// tidy runs once flags, environment and the pattern file are resolved and
// returns the process exit code.
func tidy(cmd *cobra.Command, cfg *config.Config, log *logging.Logger) int {
	// Phase 2: Logger available; all output goes through log from here on.
	if cfg.CheckOnly {
		display.PrintBanner(cmd.OutOrStdout())
		if !check.RunCheck(cfg, log) {
			return 1
		}
		return 0
	}

	if err := config.ValidateTarget(cfg.TargetPath); err != nil {
		log.Error("%v", err)
		return 1
	}

	set, err := patterns.Compile(cfg.Patterns)
	if err != nil {
		log.Error("%s: %v", cfg.PatternFileUsed, err)
		return 1
	}

	if cfg.Verbosity >= config.VerbosityTree {
		display.PrintBanner(cmd.OutOrStdout())
	}

	// Phase 3: Walk, preview or apply, report.
	stats, err := pipeline.Run(afero.NewOsFs(), cfg, set, log, cmd.OutOrStdout())
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if stats.HasFailures() {
		return 1
	}
	return 0
}
