// Package observability provides statistics tracking for narrowing runs,
// for logging and capacity reporting.
package observability

import "sync"

// RunStats accumulates counters over one narrowing run. All methods are
// O(1) and thread-safe, so parallel per-column rewrites can share one
// tracker.
type RunStats struct {
	mu               sync.Mutex
	columnsScanned   int64
	columnsNarrowed  int64
	columnsUnchanged int64
	columnsSkipped   int64
	rowsProcessed    int64
	bytesSaved       int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ColumnsScanned   int64 `json:"columns_scanned"`
	ColumnsNarrowed  int64 `json:"columns_narrowed"`
	ColumnsUnchanged int64 `json:"columns_unchanged"`
	ColumnsSkipped   int64 `json:"columns_skipped"`
	RowsProcessed    int64 `json:"rows_processed"`
	BytesSaved       int64 `json:"bytes_saved"`
}

// NewRunStats creates a new statistics tracker.
func NewRunStats() *RunStats {
	return &RunStats{}
}

// RecordNarrowed records an integer column whose width changed.
// oldWidth and newWidth are byte widths per value.
func (s *RunStats) RecordNarrowed(rows, oldWidth, newWidth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columnsScanned++
	s.columnsNarrowed++
	s.rowsProcessed += int64(rows)
	s.bytesSaved += int64(rows) * int64(oldWidth-newWidth)
}

// RecordUnchanged records an integer column already at its narrowest
// width.
func (s *RunStats) RecordUnchanged(rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columnsScanned++
	s.columnsUnchanged++
	s.rowsProcessed += int64(rows)
}

// RecordSkipped records a non-integer column carried through untouched.
func (s *RunStats) RecordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columnsSkipped++
}

// Get returns a copy of the current counters.
func (s *RunStats) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ColumnsScanned:   s.columnsScanned,
		ColumnsNarrowed:  s.columnsNarrowed,
		ColumnsUnchanged: s.columnsUnchanged,
		ColumnsSkipped:   s.columnsSkipped,
		RowsProcessed:    s.rowsProcessed,
		BytesSaved:       s.bytesSaved,
	}
}

// Reset clears all counters.
func (s *RunStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columnsScanned = 0
	s.columnsNarrowed = 0
	s.columnsUnchanged = 0
	s.columnsSkipped = 0
	s.rowsProcessed = 0
	s.bytesSaved = 0
}
