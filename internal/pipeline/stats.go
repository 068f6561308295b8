package pipeline

import "github.com/backmassage/tidyup/internal/scan"

// RunStats tracks what one run classified and what it applied.
type RunStats struct {
	RunID string

	// Classification totals, as printed in the statistics block.
	Dirs         int
	Files        int
	Removed      int
	Renamed      int
	RemovedBytes int64

	// Executor outcome. In preview mode these count what would be applied.
	Committed bool
	Applied   int
	Conflicts int
	Failed    int
}

func (s *RunStats) addLedger(st scan.Stats) {
	s.Dirs = st.Dirs
	s.Files = st.Files
	s.Removed = st.Removed
	s.Renamed = st.Renamed
	s.RemovedBytes = st.RemovedBytes
}

// HasFailures reports whether any queued item could not be applied.
// Rename conflicts are not failures.
func (s *RunStats) HasFailures() bool {
	return s.Failed > 0
}
