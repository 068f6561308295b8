package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PatternConfig is the raw, uncompiled content of a pattern file. Compilation
// into matchers happens in the patterns package.
type PatternConfig struct {
	// Remove holds name-removal patterns; entries starting with "/" are
	// regexes (the slash is stripped), everything else is a glob.
	Remove LineList `yaml:"remove"`
	// RemoveHash holds hex content digests of known-junk files.
	RemoveHash LineList `yaml:"remove_hash"`
	// Cleanup holds regexes whose matches are deleted from names, in order.
	Cleanup LineList `yaml:"cleanup"`
}

// LineList is a list of patterns that accepts either a YAML sequence of
// strings or a block scalar with one pattern per line. Blank entries are
// dropped; whitespace inside an entry is significant.
type LineList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LineList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = splitLines(node.Value)
		return nil
	case yaml.SequenceNode:
		out := make(LineList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: pattern must be a string", item.Line)
			}
			if strings.TrimSpace(item.Value) != "" {
				out = append(out, item.Value)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// splitLines splits a block scalar into lines, dropping blank ones. Each
// pattern keeps its own leading and trailing spaces.
func splitLines(s string) LineList {
	var out LineList
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Empty reports whether the config holds no patterns at all.
func (p PatternConfig) Empty() bool {
	return len(p.Remove) == 0 && len(p.RemoveHash) == 0 && len(p.Cleanup) == 0
}

// LoadPatternFile reads and decodes a pattern file. Unknown top-level keys
// (such as the "options" section consumed by viper) are ignored.
func LoadPatternFile(path string) (PatternConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PatternConfig{}, fmt.Errorf("read pattern file: %w", err)
	}
	return ParsePatterns(data)
}

// ParsePatterns decodes pattern-file YAML.
func ParsePatterns(data []byte) (PatternConfig, error) {
	var pc PatternConfig
	if err := yaml.Unmarshal(data, &pc); err != nil {
		return PatternConfig{}, fmt.Errorf("parse pattern file: %w", err)
	}
	return pc, nil
}
