// Package patterns compiles a pattern file into the three independent
// matchers used during classification: name-removal patterns (glob or
// regex, first match wins), a content-digest removal set, and an ordered
// chain of cleanup substitutions applied to names.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"

	"github.com/backmassage/tidyup/internal/config"
)

// Sentinel errors wrapped by Compile.
var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidDigest  = errors.New("invalid digest")
)

// Kind selects how a Matcher compares names.
type Kind int

const (
	KindGlob  Kind = iota // Shell glob against the whole base name.
	KindRegex             // Regex searched anywhere in the base name.
)

// Matcher is one compiled name-removal pattern. The kind is fixed at load
// time so matching never inspects pattern text.
type Matcher struct {
	Kind  Kind
	Label string // Source text, shown in previews.

	glob string // Lower-cased NFC glob.
	re   *regexp.Regexp
}

// Match reports whether name (a base name, never a path) matches. Both
// kinds are case-insensitive.
func (m Matcher) Match(name string) bool {
	switch m.Kind {
	case KindGlob:
		ok, err := doublestar.Match(m.glob, lower(name))
		return err == nil && ok
	case KindRegex:
		return m.re.MatchString(name)
	default:
		return false
	}
}

// Set is the compiled pattern configuration. The zero value matches nothing
// and leaves names unchanged.
type Set struct {
	removeName []Matcher
	removeHash digestSet
	cleanup    []*regexp.Regexp
}

// Counts summarizes a Set for diagnostics.
type Counts struct {
	Globs   int
	Regexes int
	Digests int
	Cleanup int
}

// Compile validates and compiles every pattern in pc. Entries of pc.Remove
// starting with "/" are regexes (the slash is dropped), all others globs.
func Compile(pc config.PatternConfig) (*Set, error) {
	s := &Set{}

	for _, raw := range pc.Remove {
		m, err := compileRemove(raw)
		if err != nil {
			return nil, err
		}
		s.removeName = append(s.removeName, m)
	}

	digests, err := compileDigests(pc.RemoveHash)
	if err != nil {
		return nil, err
	}
	s.removeHash = digests

	for _, raw := range pc.Cleanup {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			return nil, fmt.Errorf("%w: cleanup %q: %v", ErrInvalidPattern, raw, err)
		}
		s.cleanup = append(s.cleanup, re)
	}
	return s, nil
}

func compileRemove(raw string) (Matcher, error) {
	if expr, ok := strings.CutPrefix(raw, "/"); ok {
		if expr == "" {
			return Matcher{}, fmt.Errorf("%w: empty regex %q", ErrInvalidPattern, raw)
		}
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return Matcher{}, fmt.Errorf("%w: remove %q: %v", ErrInvalidPattern, raw, err)
		}
		return Matcher{Kind: KindRegex, Label: expr, re: re}, nil
	}

	glob := lower(raw)
	if !doublestar.ValidatePattern(glob) {
		return Matcher{}, fmt.Errorf("%w: remove glob %q", ErrInvalidPattern, raw)
	}
	return Matcher{Kind: KindGlob, Label: raw, glob: glob}, nil
}

// MatchRemoveName returns the label of the first removal pattern matching
// name, in declaration order.
func (s *Set) MatchRemoveName(name string) (bool, string) {
	if s == nil {
		return false, ""
	}
	for _, m := range s.removeName {
		if m.Match(name) {
			return true, m.Label
		}
	}
	return false, ""
}

// ApplyCleanupChain folds every cleanup regex over name in declaration
// order, deleting all matches of each. The result may equal name.
func (s *Set) ApplyCleanupChain(name string) string {
	if s == nil {
		return name
	}
	for _, re := range s.cleanup {
		name = re.ReplaceAllLiteralString(name, "")
	}
	return name
}

// HasDigests reports whether any content digests are configured.
func (s *Set) HasDigests() bool {
	return s != nil && s.removeHash.size() > 0
}

// Counts reports how many patterns of each kind the set holds.
func (s *Set) Counts() Counts {
	var c Counts
	if s == nil {
		return c
	}
	for _, m := range s.removeName {
		if m.Kind == KindRegex {
			c.Regexes++
		} else {
			c.Globs++
		}
	}
	c.Digests = s.removeHash.size()
	c.Cleanup = len(s.cleanup)
	return c
}

// lower composes s to NFC and lower-cases it rune by rune, so "*.BAK"
// matches "x.bak", a decomposed "e\u0301" matches "é", and "?" still
// stands for exactly one character ("ß" never becomes "ss").
func lower(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
