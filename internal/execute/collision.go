package execute

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/backmassage/tidyup/internal/config"
)

// ErrRenameConflict is recorded when a rename target is taken and the
// conflict policy is skip.
var ErrRenameConflict = errors.New("rename target already exists")

// claims tracks which paths a run has freed or taken so that conflicts are
// decided the same way in preview and commit modes. Destinations already
// claimed by an earlier rename, or present on disk, are taken. Paths vacated
// by a removal or an earlier rename are free.
type claims struct {
	fsys     afero.Fs
	policy   config.ConflictPolicy
	owners   map[string]string // destination path -> source path that owns it
	vacated  map[string]bool
	counters map[string]int // requested destination -> next dup counter
}

func newClaims(fsys afero.Fs, policy config.ConflictPolicy) *claims {
	return &claims{
		fsys:     fsys,
		policy:   policy,
		owners:   make(map[string]string),
		vacated:  make(map[string]bool),
		counters: make(map[string]int),
	}
}

// vacate marks p as free for later renames.
func (c *claims) vacate(p string) {
	c.vacated[p] = true
}

// resolve returns the destination to rename src to, applying the conflict
// policy when dest is taken.
func (c *claims) resolve(src, dest string, isDir bool) (string, error) {
	if !c.taken(src, dest) {
		c.owners[dest] = src
		return dest, nil
	}

	switch c.policy {
	case config.ConflictOverwrite:
		c.owners[dest] = src
		return dest, nil
	case config.ConflictSuffix:
		return c.suffixed(src, dest, isDir), nil
	default:
		return "", fmt.Errorf("%s: %w", dest, ErrRenameConflict)
	}
}

// suffixed appends " - dupN" before the extension (files only) until the
// candidate is free.
func (c *claims) suffixed(src, dest string, isDir bool) string {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := ""
	if !isDir {
		ext = filepath.Ext(base)
	}
	stem := strings.TrimSuffix(base, ext)

	counter := c.counters[dest]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		counter++
		if !c.taken(src, candidate) {
			c.counters[dest] = counter
			c.owners[candidate] = src
			return candidate
		}
	}
}

func (c *claims) taken(src, dest string) bool {
	if owner, ok := c.owners[dest]; ok {
		return owner != src
	}
	if c.vacated[dest] {
		return false
	}
	info, err := lstat(c.fsys, dest)
	if err != nil {
		return false
	}
	// Case-only renames on case-insensitive filesystems resolve to src itself.
	if srcInfo, err := lstat(c.fsys, src); err == nil && os.SameFile(info, srcInfo) {
		return false
	}
	return true
}

func lstat(fsys afero.Fs, p string) (os.FileInfo, error) {
	if l, ok := fsys.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(p)
		return info, err
	}
	return fsys.Stat(p)
}
