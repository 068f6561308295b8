package display

import (
	"fmt"
	"io"

	"github.com/backmassage/tidyup/internal/term"
)

const banner = ` _   _     _
| |_(_) __| |_   _ _   _ _ __
| __| |/ _` + "`" + ` | | | | | | | '_ \
| |_| | (_| | |_| | |_| | |_) |
 \__|_|\__,_|\__, |\__,_| .__/
             |___/      |_|`

// PrintBanner writes the ASCII art banner to w, in magenta when colors are on.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Magenta.Render(banner))
}
