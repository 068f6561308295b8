// Package scan walks a target tree once, classifying every entry as
// removed, renamed, or left alone, and records the outcome in a Ledger.
// The walk never mutates the filesystem.
package scan

// Kind is the filesystem kind of an Entry.
type Kind int

const (
	Directory Kind = iota
	File
	Symlink
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "dir"
	case Symlink:
		return "symlink"
	default:
		return "file"
	}
}

// Entry is one filesystem node found during the walk.
type Entry struct {
	Path   string // Path within the walked filesystem.
	Rel    string // Slash-separated path relative to the walk root.
	Name   string // Base name.
	Kind   Kind
	Size   int64  // Regular files only.
	Target string // Symlinks only: the resolved link target, empty when unreadable.
}

// IsDir reports whether e is a real directory. Symlinks to directories are not.
func (e Entry) IsDir() bool { return e.Kind == Directory }

// ReasonKind says why an entry was queued for removal.
type ReasonKind int

const (
	ReasonPattern  ReasonKind = iota // Name matched a removal pattern.
	ReasonHash                       // Content digest matched.
	ReasonEmptyDir                   // Subtree holds no files.
	ReasonParent                     // Inside a directory removed by pattern or hash.
)

// Reason is the removal cause. Label holds the matched pattern or digest.
type Reason struct {
	Kind  ReasonKind
	Label string
}

func (r Reason) String() string {
	switch r.Kind {
	case ReasonEmptyDir:
		return "empty-dir"
	case ReasonParent:
		return "parent"
	default:
		return r.Label
	}
}

// Removal is an entry queued for deletion.
type Removal struct {
	Entry
	Reason Reason
}

// Rename is an entry queued for renaming within its parent directory.
type Rename struct {
	Entry
	NewName string
}

// Stats are the run totals. Removed entries are counted in Dirs or Files
// as well as in Removed.
type Stats struct {
	Dirs         int
	Files        int
	Removed      int
	Renamed      int
	RemovedBytes int64
}

// Ledger is the full result of one walk. Every entry appears in exactly one
// list. Removals are ordered so that each directory follows all of its
// descendants.
type Ledger struct {
	Remove []Removal
	Rename []Rename
	Normal []Entry
	Stats  Stats
}

// Empty reports whether nothing is queued for removal or renaming.
func (l *Ledger) Empty() bool {
	return len(l.Remove) == 0 && len(l.Rename) == 0
}

func (l *Ledger) addRemoval(e Entry, r Reason) {
	l.Remove = append(l.Remove, Removal{Entry: e, Reason: r})
	l.Stats.Removed++
	if e.IsDir() {
		l.Stats.Dirs++
	} else {
		l.Stats.Files++
	}
	if e.Kind == File {
		l.Stats.RemovedBytes += e.Size
	}
}
