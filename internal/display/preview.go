package display

import (
	"fmt"
	"strings"

	"github.com/backmassage/tidyup/internal/term"
)

// Header lines for the report sections.
const (
	SummaryHeader    = "--- Summary ---"
	StatisticsHeader = "--- Statistics ---"
)

// badge returns the style and trailing slash used for an entry name.
func badge(isDir bool) (style func(...string) string, slash string) {
	if isDir {
		return term.Cyan.Render, "/"
	}
	return term.Green.Render, ""
}

// FormatRemoveLine renders a queued removal:
//
//	[-] parent/name/ <= label
//
// The name is colored only when highlight is set; label is omitted when empty.
func FormatRemoveLine(parent, name string, isDir, highlight bool, label string) string {
	style, slash := badge(isDir)
	shown := name + slash
	if highlight {
		shown = style(shown)
	}

	var b strings.Builder
	b.WriteString(term.Red.Render("[-]"))
	b.WriteString(" ")
	b.WriteString(withSlash(parent))
	b.WriteString(shown)
	if label != "" {
		b.WriteString(" <= ")
		b.WriteString(label)
	}
	return b.String()
}

// FormatRenameLine renders a queued rename:
//
//	[*] parent/{ "old" => "new" }/
func FormatRenameLine(parent, oldName, newName string, isDir bool) string {
	style, slash := badge(isDir)
	return fmt.Sprintf("%s %s{ \"%s\" => \"%s\" }%s",
		term.Yellow.Render("[*]"),
		withSlash(parent),
		style(oldName),
		term.Yellow.Render(newName),
		slash,
	)
}

func withSlash(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}
