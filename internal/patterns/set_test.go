package patterns

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/backmassage/tidyup/internal/config"
)

func mustCompile(t *testing.T, pc config.PatternConfig) *Set {
	t.Helper()
	s, err := Compile(pc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return s
}

func TestMatchRemoveName(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{
		Remove: config.LineList{"*.bak", "/^sample\\b", "Thumbs.db", "/nfo$"},
	})

	tests := []struct {
		name      string
		wantMatch bool
		wantLabel string
	}{
		{"report.bak", true, "*.bak"},
		{"REPORT.BAK", true, "*.bak"},
		{"report.bak.txt", false, ""},
		{"Sample.mkv", true, "^sample\\b"},
		{"sampler.mkv", false, ""},
		{"thumbs.DB", true, "Thumbs.db"},
		{"movie.nfo", true, "nfo$"},
		{"movie.nfo.txt", false, ""},
		{"keep.txt", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, label := s.MatchRemoveName(tt.name)
			if ok != tt.wantMatch || label != tt.wantLabel {
				t.Errorf("MatchRemoveName(%q) = (%v, %q), want (%v, %q)",
					tt.name, ok, label, tt.wantMatch, tt.wantLabel)
			}
		})
	}
}

func TestMatchRemoveName_GlobCaseIsPerRune(t *testing.T) {
	tests := []struct {
		glob      string
		name      string
		wantMatch bool
	}{
		{"?.bak", "ß.bak", true},
		{"straße*", "STRASSE.txt", false},
		{"strasse*", "straße.txt", false},
		{"STRAßE*", "straße.txt", true},
		{"ÉTÉ.*", "été.mkv", true},
		{"caf\u00e9*", "cafe\u0301.txt", true},
	}
	for _, tt := range tests {
		t.Run(tt.glob+"/"+tt.name, func(t *testing.T) {
			s := mustCompile(t, config.PatternConfig{Remove: config.LineList{tt.glob}})
			if ok, _ := s.MatchRemoveName(tt.name); ok != tt.wantMatch {
				t.Errorf("MatchRemoveName(%q) with %q = %v, want %v", tt.name, tt.glob, ok, tt.wantMatch)
			}
		})
	}
}

func TestMatchRemoveName_FirstMatchWins(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{
		Remove: config.LineList{"*.txt", "/read"},
	})
	_, label := s.MatchRemoveName("readme.txt")
	if label != "*.txt" {
		t.Errorf("label = %q, want first declared pattern", label)
	}
}

func TestRegexIsSearchNotFullMatch(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{Remove: config.LineList{"/rarbg"}})
	if ok, _ := s.MatchRemoveName("Movie.RARBG.com.txt"); !ok {
		t.Error("regex should match anywhere in the name")
	}
}

func TestApplyCleanupChain(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{
		Cleanup: config.LineList{`\[\d+\]`, `\s+x264`},
	})

	got := s.ApplyCleanupChain("Movie [2020] x264.mkv")
	if got != "Movie.mkv" {
		t.Fatalf("ApplyCleanupChain = %q, want %q", got, "Movie.mkv")
	}
	if again := s.ApplyCleanupChain(got); again != got {
		t.Errorf("chain not idempotent: %q -> %q", got, again)
	}
	if same := s.ApplyCleanupChain("plain.txt"); same != "plain.txt" {
		t.Errorf("no-op chain changed name to %q", same)
	}
}

func TestApplyCleanupChain_OrderMatters(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{
		Cleanup: config.LineList{`\.x264`, `HD\.mkv`},
	})
	// The second pattern only matches once the first has run.
	if got := s.ApplyCleanupChain("Show.HD.x264.mkv"); got != "Show." {
		t.Errorf("got %q, want %q", got, "Show.")
	}
}

func TestApplyCleanupChain_LeadingSpaceIsPartOfPattern(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{Cleanup: config.LineList{" - Copy", " +$"}})
	if got := s.ApplyCleanupChain("Movie - Copy.mkv"); got != "Movie.mkv" {
		t.Errorf("got %q, want %q", got, "Movie.mkv")
	}
	if got := s.ApplyCleanupChain("notes  "); got != "notes" {
		t.Errorf("got %q, want %q", got, "notes")
	}
}

func TestApplyCleanupChain_ReplacementIsLiteral(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{Cleanup: config.LineList{`(tag)`}})
	if got := s.ApplyCleanupChain("a tag $1 b"); got != "a  $1 b" {
		t.Errorf("got %q", got)
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	if ok, _ := s.MatchRemoveName("x"); ok {
		t.Error("nil set should match nothing")
	}
	if got := s.ApplyCleanupChain("x [1]"); got != "x [1]" {
		t.Errorf("nil set changed name to %q", got)
	}
	if s.HasDigests() {
		t.Error("nil set should have no digests")
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		pc   config.PatternConfig
		want error
	}{
		{"bad regex", config.PatternConfig{Remove: config.LineList{"/(unclosed"}}, ErrInvalidPattern},
		{"empty regex", config.PatternConfig{Remove: config.LineList{"/"}}, ErrInvalidPattern},
		{"bad glob", config.PatternConfig{Remove: config.LineList{"[abc"}}, ErrInvalidPattern},
		{"bad cleanup", config.PatternConfig{Cleanup: config.LineList{"(?P<"}}, ErrInvalidPattern},
		{"non-hex digest", config.PatternConfig{RemoveHash: config.LineList{"zz41d8cd98f00b204e9800998ecf8427e"}}, ErrInvalidDigest},
		{"odd length digest", config.PatternConfig{RemoveHash: config.LineList{"abc"}}, ErrInvalidDigest},
		{"unsupported length", config.PatternConfig{RemoveHash: config.LineList{"abcd"}}, ErrInvalidDigest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pc)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{
		Remove:     config.LineList{"*.bak", "/x", "/y"},
		RemoveHash: config.LineList{"d41d8cd98f00b204e9800998ecf8427e"},
		Cleanup:    config.LineList{`\[\d+\]`},
	})
	want := Counts{Globs: 1, Regexes: 2, Digests: 1, Cleanup: 1}
	if got := s.Counts(); got != want {
		t.Errorf("Counts = %+v, want %+v", got, want)
	}
}

func TestMatchRemoveHash(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/t/hello.txt", []byte("hello"), 0o644)
	_ = afero.WriteFile(fs, "/t/empty.txt", nil, 0o644)
	_ = afero.WriteFile(fs, "/t/other.txt", []byte("other"), 0o644)

	s := mustCompile(t, config.PatternConfig{
		RemoveHash: config.LineList{
			// md5("hello"), uppercase.
			"5D41402ABC4B2A76B9719D911017C592",
			// sha256("").
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	})

	tests := []struct {
		path       string
		size       int64
		wantMatch  bool
		wantDigest string
	}{
		{"/t/hello.txt", 5, true, "5d41402abc4b2a76b9719d911017c592"},
		{"/t/empty.txt", 0, true, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"/t/other.txt", 5, false, ""},
		{"/t/hello.txt", HashSizeLimit + 1, false, ""},
	}
	for _, tt := range tests {
		ok, digest, err := s.MatchRemoveHash(fs, tt.path, tt.size)
		if err != nil {
			t.Fatalf("MatchRemoveHash(%s): %v", tt.path, err)
		}
		if ok != tt.wantMatch || digest != tt.wantDigest {
			t.Errorf("MatchRemoveHash(%s, %d) = (%v, %q), want (%v, %q)",
				tt.path, tt.size, ok, digest, tt.wantMatch, tt.wantDigest)
		}
	}
}

func TestMatchRemoveHash_SizeCeilingInclusive(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/f", nil, 0o644)
	s := mustCompile(t, config.PatternConfig{
		RemoveHash: config.LineList{"da39a3ee5e6b4b0d3255bfef95601890afd80709"}, // sha1("")
	})
	// A reported size equal to the ceiling is still eligible.
	ok, _, err := s.MatchRemoveHash(fs, "/f", HashSizeLimit)
	if err != nil || !ok {
		t.Errorf("size == HashSizeLimit: ok=%v err=%v, want match", ok, err)
	}
}

func TestMatchRemoveHash_MissingFile(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{
		RemoveHash: config.LineList{"d41d8cd98f00b204e9800998ecf8427e"},
	})
	if _, _, err := s.MatchRemoveHash(afero.NewMemMapFs(), "/nope", 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMatchRemoveHash_NoDigestsNeverReads(t *testing.T) {
	s := mustCompile(t, config.PatternConfig{})
	ok, _, err := s.MatchRemoveHash(afero.NewMemMapFs(), "/nope", 0)
	if ok || err != nil {
		t.Errorf("empty digest set: ok=%v err=%v", ok, err)
	}
}
