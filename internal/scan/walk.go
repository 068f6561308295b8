package scan

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/backmassage/tidyup/internal/config"
)

// TmpDirName marks directories the walk ignores when Options.SkipTmp is set.
const TmpDirName = ".tmp"

// Patterns is the matching surface the walk needs. *patterns.Set implements it.
type Patterns interface {
	MatchRemoveName(name string) (bool, string)
	MatchRemoveHash(fsys afero.Fs, path string, size int64) (bool, string, error)
	ApplyCleanupChain(name string) string
}

// Options toggle the classification steps.
type Options struct {
	Remove         bool
	Rename         bool
	PruneEmptyDirs bool // Only effective together with Remove.
	SkipTmp        bool
}

type walker struct {
	fsys   afero.Fs
	set    Patterns
	opts   Options
	ledger *Ledger
}

// Walk classifies every entry under root, depth-first with directories
// before files and names in byte order. The root itself is not classified.
// Listing or hashing errors abort the walk.
func Walk(fsys afero.Fs, root string, set Patterns, opts Options) (*Ledger, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", root, config.ErrTargetNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, config.ErrTargetNotDir)
	}

	w := &walker{fsys: fsys, set: set, opts: opts, ledger: &Ledger{}}
	if opts.SkipTmp && filepath.Base(filepath.Clean(root)) == TmpDirName {
		return w.ledger, nil
	}

	children, err := w.list(root, "")
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		if err := w.classify(c); err != nil {
			return nil, err
		}
	}
	return w.ledger, nil
}

func (w *walker) classify(e Entry) error {
	if w.skipped(e) {
		return nil
	}

	if w.opts.Remove {
		reason, matched, err := w.matchRemove(e)
		if err != nil {
			return err
		}
		if matched {
			return w.removeSubtree(e, reason, Reason{Kind: ReasonParent})
		}

		if w.opts.PruneEmptyDirs && e.IsDir() {
			empty, err := w.isEmptyTree(e)
			if err != nil {
				return err
			}
			if empty {
				r := Reason{Kind: ReasonEmptyDir}
				return w.removeSubtree(e, r, r)
			}
		}
	}

	if e.IsDir() {
		children, err := w.list(e.Path, e.Rel)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := w.classify(c); err != nil {
				return err
			}
		}
		w.ledger.Stats.Dirs++
	} else {
		w.ledger.Stats.Files++
	}

	if w.opts.Rename {
		// A chain that erases the whole name leaves the entry alone.
		if newName := w.set.ApplyCleanupChain(e.Name); newName != e.Name && newName != "" {
			w.ledger.Rename = append(w.ledger.Rename, Rename{Entry: e, NewName: newName})
			w.ledger.Stats.Renamed++
			return nil
		}
	}

	w.ledger.Normal = append(w.ledger.Normal, e)
	return nil
}

func (w *walker) skipped(e Entry) bool {
	return w.opts.SkipTmp && e.IsDir() && e.Name == TmpDirName
}

func (w *walker) matchRemove(e Entry) (Reason, bool, error) {
	if ok, label := w.set.MatchRemoveName(e.Name); ok {
		return Reason{Kind: ReasonPattern, Label: label}, true, nil
	}
	if e.Kind != File {
		return Reason{}, false, nil
	}
	ok, digest, err := w.set.MatchRemoveHash(w.fsys, e.Path, e.Size)
	if err != nil {
		return Reason{}, false, err
	}
	return Reason{Kind: ReasonHash, Label: digest}, ok, nil
}

// removeSubtree queues e for removal. For a directory, its descendants are
// queued first in reverse pre-order, then the directory itself.
func (w *walker) removeSubtree(e Entry, own, descendants Reason) error {
	if e.IsDir() {
		var pre []Entry
		if err := w.preorder(e, &pre); err != nil {
			return err
		}
		for i := len(pre) - 1; i >= 0; i-- {
			w.ledger.addRemoval(pre[i], descendants)
		}
	}
	w.ledger.addRemoval(e, own)
	return nil
}

// preorder appends every descendant of dir, parents before children.
// Nothing is skipped, including .tmp directories.
func (w *walker) preorder(dir Entry, out *[]Entry) error {
	children, err := w.list(dir.Path, dir.Rel)
	if err != nil {
		return err
	}
	for _, c := range children {
		*out = append(*out, c)
		if c.IsDir() {
			if err := w.preorder(c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// isEmptyTree reports whether dir holds no files or symlinks at any depth.
// With SkipTmp set, a .tmp directory counts as content: it is never queued,
// so its parent could not be removed.
func (w *walker) isEmptyTree(dir Entry) (bool, error) {
	children, err := w.list(dir.Path, dir.Rel)
	if err != nil {
		return false, err
	}
	for _, c := range children {
		if !c.IsDir() || w.skipped(c) {
			return false, nil
		}
		empty, err := w.isEmptyTree(c)
		if err != nil || !empty {
			return false, err
		}
	}
	return true, nil
}

// list returns the children of dirPath, directories first, then by name.
func (w *walker) list(dirPath, rel string) ([]Entry, error) {
	infos, err := afero.ReadDir(w.fsys, dirPath)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dirPath, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		e := Entry{
			Path: filepath.Join(dirPath, info.Name()),
			Rel:  path.Join(rel, info.Name()),
			Name: info.Name(),
		}
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			e.Kind = Symlink
			e.Target = w.readlink(e.Path)
		case info.IsDir():
			e.Kind = Directory
		default:
			e.Kind = File
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// readlink returns the link target resolved against the link's directory.
// The target is not required to exist. Filesystems without symlink support
// yield "".
func (w *walker) readlink(p string) string {
	lr, ok := w.fsys.(afero.LinkReader)
	if !ok {
		return ""
	}
	target, err := lr.ReadlinkIfPossible(p)
	if err != nil {
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(p), target)
	}
	return target
}
