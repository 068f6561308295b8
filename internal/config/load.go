package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// PatternFileName is the base name searched for when -c is not given.
	PatternFileName = "cleanup-patterns"
	envPrefix       = "TIDYUP"
)

// optionBinding ties one layered option key to the flags that can set it
// and to the Config field it fills.
type optionBinding struct {
	key   string
	flags []string
	apply func(v *viper.Viper, key string, cfg *Config)
}

// optionBindings lists every option that env vars and the "options" section
// of the pattern file may set. --commit is flag-only.
var optionBindings = []optionBinding{
	{"options.remove", []string{"rm", "no-rm"}, func(v *viper.Viper, k string, c *Config) { c.Remove = v.GetBool(k) }},
	{"options.rename", []string{"rename", "no-rename"}, func(v *viper.Viper, k string, c *Config) { c.Rename = v.GetBool(k) }},
	{"options.prune-empty", []string{"prune-empty", "no-prune-empty"}, func(v *viper.Viper, k string, c *Config) { c.PruneEmptyDirs = v.GetBool(k) }},
	{"options.skip-tmp", []string{"skip-tmp", "no-skip-tmp"}, func(v *viper.Viper, k string, c *Config) { c.SkipTmp = v.GetBool(k) }},
	{"options.on-conflict", []string{"on-conflict"}, func(v *viper.Viper, k string, c *Config) {
		c.OnConflict = ConflictPolicy(strings.ToLower(v.GetString(k)))
	}},
	{"options.color", []string{"color", "no-color"}, func(v *viper.Viper, k string, c *Config) { c.ColorMode = ColorMode(strings.ToLower(v.GetString(k))) }},
	{"options.verbose", []string{"verbose"}, func(v *viper.Viper, k string, c *Config) { c.Verbosity = v.GetInt(k) }},
	{"options.log", []string{"log"}, func(v *viper.Viper, k string, c *Config) { c.LogFile = v.GetString(k) }},
}

// NewViper returns a viper store seeded with defaults and bound to
// TIDYUP_* environment variables (TIDYUP_OPTIONS_PRUNE_EMPTY, TIDYUP_CONFIG, ...).
func NewViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("options.remove", d.Remove)
	v.SetDefault("options.rename", d.Rename)
	v.SetDefault("options.prune-empty", d.PruneEmptyDirs)
	v.SetDefault("options.skip-tmp", d.SkipTmp)
	v.SetDefault("options.on-conflict", string(d.OnConflict))
	v.SetDefault("options.color", string(d.ColorMode))
	v.SetDefault("options.verbose", d.Verbosity)
	v.SetDefault("options.log", d.LogFile)
	return v
}

// Load layers environment and config-file options under the parsed flags,
// decodes the pattern file, and validates the result. A missing pattern
// file is not an error: the pattern lists stay empty.
func Load(cfg *Config, flags *pflag.FlagSet) error {
	v := NewViper()

	explicit := cfg.ConfigFile
	if explicit == "" {
		explicit = v.GetString("config")
	}
	used, err := ReadConfigFile(v, explicit, cfg.TargetPath)
	if err != nil {
		return err
	}
	ApplyOptions(v, cfg, flags)

	if used != "" {
		pc, err := LoadPatternFile(used)
		if err != nil {
			return err
		}
		cfg.Patterns = pc
		cfg.PatternFileUsed = used
	}
	return cfg.Validate()
}

// patternFileExts are the only extensions discovery considers. Other files
// named cleanup-patterns are ignored rather than parsed as YAML.
var patternFileExts = []string{".yml", ".yaml"}

// ReadConfigFile reads the explicit file when given, otherwise searches
// [SearchPaths] for cleanup-patterns.{yml,yaml}. It returns the file used,
// or "" when the search found nothing.
func ReadConfigFile(v *viper.Viper, explicit, target string) (string, error) {
	v.SetConfigType("yaml")
	if explicit == "" {
		explicit = FindPatternFile(SearchPaths(target))
		if explicit == "" {
			return "", nil
		}
	}
	v.SetConfigFile(explicit)

	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config %s: %w", explicit, err)
	}
	return v.ConfigFileUsed(), nil
}

// FindPatternFile returns the first cleanup-patterns.yml or .yaml regular
// file in dirs, or "".
func FindPatternFile(dirs []string) string {
	for _, dir := range dirs {
		for _, ext := range patternFileExts {
			p := filepath.Join(dir, PatternFileName+ext)
			if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
				return p
			}
		}
	}
	return ""
}

// ApplyOptions copies layered values into cfg for every option that no
// command-line flag explicitly set. flags may be nil.
func ApplyOptions(v *viper.Viper, cfg *Config, flags *pflag.FlagSet) {
	for _, b := range optionBindings {
		if flagChanged(flags, b.flags) {
			continue
		}
		b.apply(v, b.key, cfg)
	}
	clampVerbosity(cfg)
}

func flagChanged(flags *pflag.FlagSet, names []string) bool {
	if flags == nil {
		return false
	}
	for _, name := range names {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

// SearchPaths returns the directories searched for the pattern file, in
// priority order without duplicates: the target, each of its parents, the
// home directory, and the directory holding the running binary.
func SearchPaths(target string) []string {
	var candidates []string
	if abs, err := filepath.Abs(target); err == nil {
		for dir := abs; ; dir = filepath.Dir(dir) {
			candidates = append(candidates, dir)
			if filepath.Dir(dir) == dir {
				break
			}
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, home)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidates = append(candidates, filepath.Dir(exe))
	}
	return uniqKeepOrder(candidates)
}

// uniqKeepOrder drops repeated entries while preserving first-seen order.
func uniqKeepOrder(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
