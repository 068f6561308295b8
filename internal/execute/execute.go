// Package execute applies a scan.Ledger: a remove pass in ledger order, then
// a rename pass. Without Commit it only prints what it would do. Per-item
// errors are collected and never stop a pass.
package execute

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/backmassage/tidyup/internal/config"
	"github.com/backmassage/tidyup/internal/display"
	"github.com/backmassage/tidyup/internal/scan"
)

// Options control what Apply does.
type Options struct {
	Commit     bool
	Remove     bool
	Rename     bool
	Conflict   config.ConflictPolicy
	ShowLabels bool // Append the matched pattern, digest or reason to removal lines.
}

// Op names the operation that failed.
type Op string

const (
	OpRemove Op = "remove"
	OpRename Op = "rename"
)

// Failure is one item that could not be applied.
type Failure struct {
	Op   Op
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarizes an Apply call. In preview mode Removed and Renamed count
// what would have been applied.
type Report struct {
	Removed  int
	Renamed  int
	Skipped  int // Renames skipped because of a conflict.
	Failures []Failure
}

// Conflicts returns the failures caused by rename conflicts.
func (r Report) Conflicts() []Failure {
	return r.filter(true)
}

// Errors returns every failure that is not a rename conflict.
func (r Report) Errors() []Failure {
	return r.filter(false)
}

func (r Report) filter(conflicts bool) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if errors.Is(f.Err, ErrRenameConflict) == conflicts {
			out = append(out, f)
		}
	}
	return out
}

// Apply runs the remove pass and then the rename pass over l, writing one
// preview line per item to out.
func Apply(fsys afero.Fs, l *scan.Ledger, opts Options, out io.Writer) Report {
	var rep Report
	c := newClaims(fsys, opts.Conflict)

	if opts.Remove {
		for _, r := range l.Remove {
			removeOne(fsys, r, opts, c, &rep, out)
		}
	}
	if opts.Rename {
		for _, r := range l.Rename {
			renameOne(fsys, r, opts, c, &rep, out)
		}
	}
	return rep
}

func removeOne(fsys afero.Fs, r scan.Removal, opts Options, c *claims, rep *Report, out io.Writer) {
	label := ""
	if opts.ShowLabels && r.Reason.Kind != scan.ReasonParent {
		label = r.Reason.String()
	}
	highlight := r.Reason.Kind != scan.ReasonParent
	fmt.Fprintln(out, display.FormatRemoveLine(filepath.Dir(r.Path), r.Name, r.IsDir(), highlight, label))

	if opts.Commit {
		// Directories are empty by now; Remove never follows symlinks.
		if err := fsys.Remove(r.Path); err != nil {
			rep.Failures = append(rep.Failures, Failure{Op: OpRemove, Path: r.Path, Err: err})
			return
		}
	}
	c.vacate(r.Path)
	rep.Removed++
}

func renameOne(fsys afero.Fs, r scan.Rename, opts Options, c *claims, rep *Report, out io.Writer) {
	parent := filepath.Dir(r.Path)
	dest, err := c.resolve(r.Path, filepath.Join(parent, r.NewName), r.IsDir())
	if err != nil {
		rep.Skipped++
		rep.Failures = append(rep.Failures, Failure{Op: OpRename, Path: r.Path, Err: err})
		return
	}
	fmt.Fprintln(out, display.FormatRenameLine(parent, r.Name, filepath.Base(dest), r.IsDir()))

	if opts.Commit {
		if err := fsys.Rename(r.Path, dest); err != nil {
			rep.Failures = append(rep.Failures, Failure{Op: OpRename, Path: r.Path, Err: err})
			return
		}
	}
	c.vacate(r.Path)
	rep.Renamed++
}
