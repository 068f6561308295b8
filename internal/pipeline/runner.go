package pipeline

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/backmassage/tidyup/internal/config"
	"github.com/backmassage/tidyup/internal/display"
	"github.com/backmassage/tidyup/internal/execute"
	"github.com/backmassage/tidyup/internal/logging"
	"github.com/backmassage/tidyup/internal/scan"
	"github.com/backmassage/tidyup/internal/tree"
)

// Run is the top-level entry point. The report (preview lines, tree and
// statistics) goes to out; progress and problems go through log.
func Run(fsys afero.Fs, cfg *config.Config, set scan.Patterns, log *logging.Logger, out io.Writer) (RunStats, error) {
	stats := RunStats{RunID: uuid.NewString(), Committed: cfg.Commit}

	logRunHeader(cfg, log, &stats)

	ledger, err := scan.Walk(fsys, cfg.TargetPath, set, scan.Options{
		Remove:         cfg.Remove,
		Rename:         cfg.Rename,
		PruneEmptyDirs: cfg.PruneEmptyDirs,
		SkipTmp:        cfg.SkipTmp,
	})
	if err != nil {
		return stats, fmt.Errorf("scan %s: %w", cfg.TargetPath, err)
	}
	stats.addLedger(ledger.Stats)
	log.Debug("Classified: %d to remove, %d to rename, %d untouched",
		len(ledger.Remove), len(ledger.Rename), len(ledger.Normal))

	if !ledger.Empty() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, display.SummaryHeader)
	}

	rep := execute.Apply(fsys, ledger, execute.Options{
		Commit:     cfg.Commit,
		Remove:     cfg.Remove,
		Rename:     cfg.Rename,
		Conflict:   cfg.OnConflict,
		ShowLabels: cfg.Verbosity >= config.VerbosityLabels,
	}, out)
	stats.Applied = rep.Removed + rep.Renamed
	stats.Conflicts = len(rep.Conflicts())
	stats.Failed = len(rep.Errors())

	if cfg.Verbosity >= config.VerbosityTree {
		fmt.Fprintln(out, cfg.TargetPath)
		for _, line := range tree.Build(ledger.Normal).Lines() {
			fmt.Fprintln(out, line)
		}
	}

	printStatistics(out, ledger.Stats)
	logOutcome(cfg, log, &stats, rep, ledger)
	return stats, nil
}

func logRunHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	mode := "preview"
	if cfg.Commit {
		mode = "commit"
	}
	log.Info("Run %s: %s (%s)", stats.RunID, cfg.TargetPath, mode)
	if cfg.PatternFileUsed != "" {
		log.Debug("Patterns: %s", cfg.PatternFileUsed)
	} else {
		log.Debug("Patterns: none found, nothing will match")
	}
	log.Debug("Options: remove=%v rename=%v prune-empty=%v skip-tmp=%v on-conflict=%s",
		cfg.Remove, cfg.Rename, cfg.PruneEmptyDirs, cfg.SkipTmp, cfg.OnConflict)
}

func printStatistics(out io.Writer, st scan.Stats) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, display.StatisticsHeader)
	fmt.Fprintln(out, display.FormatStat("Dir Total", st.Dirs))
	fmt.Fprintln(out, display.FormatStat("File Total", st.Files))
	fmt.Fprintln(out, display.FormatStat("Files Removed", st.Removed))
	fmt.Fprintln(out, display.FormatStat("Files Renamed", st.Renamed))
}

func logOutcome(cfg *config.Config, log *logging.Logger, stats *RunStats, rep execute.Report, ledger *scan.Ledger) {
	for _, f := range rep.Conflicts() {
		log.Warn("Skip rename (target exists): %s", f.Path)
	}
	for _, f := range rep.Errors() {
		log.Error("%v", f)
	}

	if ledger.Empty() {
		log.Success("Nothing to tidy")
		return
	}

	reclaim := display.FormatBytes(stats.RemovedBytes)
	if !cfg.Commit {
		log.Info("Would remove %d (%s) and rename %d; re-run with --commit to apply",
			rep.Removed, reclaim, rep.Renamed)
		return
	}
	if stats.HasFailures() {
		log.Error("Applied %d of %d changes, %d failed", stats.Applied, len(ledger.Remove)+len(ledger.Rename), stats.Failed)
		return
	}
	log.Success("Removed %d (%s), renamed %d", rep.Removed, reclaim, rep.Renamed)
}
