package config

// This file builds the cobra command and its flags.
// Negated flags (e.g. --no-rm) are applied after parsing so Config defaults
// hold unless the user passes the flag; environment and config-file values
// are layered in afterwards by Load for every option no flag touched.

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	noRemove   bool
	noRename   bool
	noPrune    bool
	noSkipTmp  bool
	forceColor bool
	noColor    bool
	onConflict string
}

// RunFunc receives the fully resolved configuration.
type RunFunc func(cmd *cobra.Command, cfg *Config) error

// NewCommand builds the root command. Parsing fills cfg from flags, the
// positional target path, the environment, and the config file, validates
// it, and then hands it to run.
func NewCommand(cfg *Config, version string, run RunFunc) *cobra.Command {
	var negated negatedFlags

	cmd := &cobra.Command{
		Use:   "tidyup [TARGET-PATH]",
		Short: "Remove junk and strip release tags from names in a directory tree",
		Long: `tidyup classifies every entry under TARGET-PATH as remove, rename, or leave,
using name globs/regexes, content digests, and cleanup regexes from a
cleanup-patterns.yml file. Without --commit it only previews what it would do.

Pattern file search order (unless -c is given): TARGET-PATH and each of its
parents, $HOME, then the directory holding the tidyup binary.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.TargetPath = NormalizeDirArg(args[0])
			}
			if err := applyNegatedFlags(cfg, &negated); err != nil {
				return err
			}
			if err := Load(cfg, cmd.Flags()); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	defineFeatureFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	return cmd
}

// defineFeatureFlags registers the remove/rename/prune/skip-tmp toggles,
// --commit, --on-conflict and -c/--config.
func defineFeatureFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "Pattern file (default: search cleanup-patterns.yml)")
	fs.BoolVarP(&cfg.Remove, "rm", "d", cfg.Remove, "Remove entries matching remove patterns or digests")
	fs.BoolVarP(&n.noRemove, "no-rm", "D", false, "Do not remove anything")
	fs.BoolVarP(&cfg.Rename, "rename", "r", cfg.Rename, "Strip cleanup patterns from names")
	fs.BoolVarP(&n.noRename, "no-rename", "R", false, "Do not rename anything")
	fs.BoolVarP(&cfg.PruneEmptyDirs, "prune-empty", "e", cfg.PruneEmptyDirs, "Remove directories that contain no files")
	fs.BoolVar(&n.noPrune, "no-prune-empty", false, "Keep empty directories")
	fs.BoolVar(&cfg.SkipTmp, "skip-tmp", cfg.SkipTmp, "Ignore .tmp directories entirely")
	fs.BoolVar(&n.noSkipTmp, "no-skip-tmp", false, "Descend into .tmp directories")
	fs.BoolVar(&cfg.Commit, "commit", false, "Apply removals and renames (default: preview only)")
	fs.StringVar(&n.onConflict, "on-conflict", string(cfg.OnConflict), "Rename collision policy: skip | overwrite | suffix")
}

// defineDisplayFlags registers -v, --color, --no-color, -l/--log and --check.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.CountVarP(&cfg.Verbosity, "verbose", "v", "Verbose output (repeat: -v tree, -vv debug, -vvv pattern labels)")
	fs.BoolVar(&n.forceColor, "color", false, "Force colored output")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored output")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Validate the pattern file and target, then exit")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) error {
	if n.noRemove {
		cfg.Remove = false
	}
	if n.noRename {
		cfg.Rename = false
	}
	if n.noPrune {
		cfg.PruneEmptyDirs = false
	}
	if n.noSkipTmp {
		cfg.SkipTmp = false
	}
	clampVerbosity(cfg)
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
	policy, err := parseConflictPolicy(n.onConflict)
	if err != nil {
		return err
	}
	cfg.OnConflict = policy
	return nil
}

func parseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case ConflictSkip, ConflictOverwrite, ConflictSuffix:
		return ConflictPolicy(s), nil
	case "":
		return ConflictSkip, nil
	default:
		return "", fmt.Errorf("invalid conflict policy %q (use 'skip', 'overwrite' or 'suffix')", s)
	}
}
