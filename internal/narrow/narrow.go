package narrow

import (
	"log"
	"sync"

	"github.com/cinchdb/cinch/internal/observability"
	"github.com/cinchdb/cinch/pkg/types"
)

// Options controls a narrowing run.
type Options struct {
	// EmptyColumns selects the width policy for all-null columns.
	EmptyColumns EmptyColumnPolicy

	// Concurrency is the number of columns rewritten in parallel.
	// Values <= 1 process columns sequentially. Parallelism is an
	// optimization only: no column's rewrite depends on any other
	// column's rewrite, and correctness never depends on this setting.
	Concurrency int

	// Stats, when non-nil, receives per-column counters for the run.
	Stats *observability.RunStats
}

// Narrow rewrites every integer column of the table to its narrowest
// lossless width and validates the result against the original. The
// input table is never mutated; non-integer columns are carried through
// unchanged (columns are immutable, so sharing them is safe). The
// returned Diff lists the per-column type changes.
//
// Narrowing either fully succeeds and returns a validated table, or
// fails with no partial externally visible state.
func Narrow(t *types.Table, opts Options) (*types.Table, Diff, error) {
	integer := make(map[string]bool)
	for _, name := range SelectIntegerColumns(t) {
		integer[name] = true
	}

	original := t.Columns()
	rewritten := make([]*types.Column, len(original))

	process := func(i int) error {
		col := original[i]
		if !integer[col.Name()] {
			rewritten[i] = col
			if opts.Stats != nil {
				opts.Stats.RecordSkipped()
			}
			return nil
		}

		bounds := ColumnBounds(col)
		target := SelectWidthWithPolicy(bounds, col.Type(), opts.EmptyColumns)
		newCol, err := Rewrite(col, target)
		if err != nil {
			return err
		}
		rewritten[i] = newCol

		if opts.Stats != nil {
			if target != col.Type() {
				opts.Stats.RecordNarrowed(col.Len(), col.Type().ByteWidth(), target.ByteWidth())
			} else {
				opts.Stats.RecordUnchanged(col.Len())
			}
		}
		return nil
	}

	if err := forEachColumn(len(original), opts.Concurrency, process); err != nil {
		return nil, Diff{}, err
	}

	result, err := types.NewTable(rewritten)
	if err != nil {
		return nil, Diff{}, err
	}

	diff, err := Validate(t, result)
	if err != nil {
		return nil, Diff{}, err
	}

	log.Printf("narrow: rewrote %d of %d columns (%s)", len(diff.Changes), len(original), diff)
	return result, diff, nil
}

// forEachColumn runs fn for every column index, fanning out across
// workers when concurrency > 1. The first error wins; remaining workers
// finish their in-flight column and exit. Per-column work shares no
// mutable state, so the only synchronization needed is around the error.
func forEachColumn(n, concurrency int, fn func(int) error) error {
	if concurrency <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, concurrency)
	for i := 0; i < n; i++ {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return firstErr
}
