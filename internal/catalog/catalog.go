// Package catalog records narrowing runs in a SQLite audit catalog. Each
// run stores the per-column type changes and scanned bounds, so the
// history of a file's schema can be reconstructed without the files
// themselves.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/pkg/types"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded narrowing run.
type Run struct {
	ID         string
	SourcePath string
	OutputPath string
	RowCount   int64
	Columns    []RunColumn
	CreatedAt  time.Time
}

// RunColumn is the audit record for one rewritten column.
type RunColumn struct {
	Name    string
	OldType types.LogicalType
	NewType types.LogicalType
	Bounds  types.Bounds
}

// Catalog is a SQLite-backed audit catalog.
type Catalog struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex // write lock; SQLite allows one writer
}

// Open opens (or creates) the catalog database at dbPath.
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to open catalog database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Catalog{db: db, dbPath: dbPath}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the catalog database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			row_count   INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS run_columns (
			run_id      TEXT NOT NULL,
			column_name TEXT NOT NULL,
			old_type    TEXT NOT NULL,
			new_type    TEXT NOT NULL,
			min_value   INTEGER,
			max_value   INTEGER,
			empty       INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, column_name)
		) WITHOUT ROWID`,
		`CREATE TABLE IF NOT EXISTS file_bounds (
			file_path   TEXT NOT NULL,
			column_name TEXT NOT NULL,
			min_value   INTEGER,
			max_value   INTEGER,
			empty       INTEGER NOT NULL DEFAULT 0,
			updated_at  INTEGER NOT NULL,
			PRIMARY KEY (file_path, column_name)
		) WITHOUT ROWID`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source_path, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to initialize catalog schema", err)
		}
	}
	return nil
}

// RecordRun stores a run and its column changes in one transaction.
func (c *Catalog) RecordRun(ctx context.Context, run *Run) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, source_path, output_path, row_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, run.OutputPath, run.RowCount, run.CreatedAt.Unix(),
	)
	if err != nil {
		return cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
			fmt.Sprintf("failed to insert run %s", run.ID), err)
	}

	for _, col := range run.Columns {
		var min, max interface{}
		if !col.Bounds.Empty {
			min, max = col.Bounds.Min, col.Bounds.Max
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_columns (run_id, column_name, old_type, new_type, min_value, max_value, empty)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, col.Name, col.OldType.String(), col.NewType.String(), min, max, boolToInt(col.Bounds.Empty),
		)
		if err != nil {
			return cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
				fmt.Sprintf("failed to insert run column %s/%s", run.ID, col.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to commit run", err)
	}
	return nil
}

// GetRun retrieves a run and its column changes by ID.
func (c *Catalog) GetRun(ctx context.Context, runID string) (*Run, error) {
	run := &Run{ID: runID}
	var createdAtUnix int64

	err := c.db.QueryRowContext(ctx,
		`SELECT source_path, output_path, row_count, created_at FROM runs WHERE run_id = ?`,
		runID,
	).Scan(&run.SourcePath, &run.OutputPath, &run.RowCount, &createdAtUnix)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, cerrors.New(cerrors.ErrCategoryCatalog, cerrors.CodeRunNotFound,
				fmt.Sprintf("run %s not found", runID))
		}
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
			fmt.Sprintf("failed to get run %s", runID), err)
	}
	run.CreatedAt = time.Unix(createdAtUnix, 0)

	rows, err := c.db.QueryContext(ctx,
		`SELECT column_name, old_type, new_type, min_value, max_value, empty
		 FROM run_columns WHERE run_id = ? ORDER BY column_name`,
		runID,
	)
	if err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
			fmt.Sprintf("failed to query columns for run %s", runID), err)
	}
	defer rows.Close()

	for rows.Next() {
		col, err := scanRunColumn(rows)
		if err != nil {
			return nil, err
		}
		run.Columns = append(run.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "error iterating run columns", err)
	}

	return run, nil
}

// ListRuns returns runs ordered by creation time, newest first.
func (c *Catalog) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT run_id, source_path, output_path, row_count, created_at
		 FROM runs ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to list runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAtUnix int64
		if err := rows.Scan(&run.ID, &run.SourcePath, &run.OutputPath, &run.RowCount, &createdAtUnix); err != nil {
			return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to scan run", err)
		}
		run.CreatedAt = time.Unix(createdAtUnix, 0)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "error iterating runs", err)
	}
	return runs, nil
}

// UpsertFileBounds records the scanned bounds of a column in a file,
// keyed by file path and column name. These zone maps let a caller check
// a file's column range directly from the catalog.
func (c *Catalog) UpsertFileBounds(ctx context.Context, filePath, column string, b types.Bounds) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var min, max interface{}
	if !b.Empty {
		min, max = b.Min, b.Max
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO file_bounds (file_path, column_name, min_value, max_value, empty, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		filePath, column, min, max, boolToInt(b.Empty), time.Now().Unix(),
	)
	if err != nil {
		return cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
			fmt.Sprintf("failed to upsert bounds for %s/%s", filePath, column), err)
	}
	return nil
}

// GetFileBounds retrieves recorded bounds for a file's column.
// Returns nil, nil when no bounds are recorded.
func (c *Catalog) GetFileBounds(ctx context.Context, filePath, column string) (*types.Bounds, error) {
	var min, max sql.NullInt64
	var empty int

	err := c.db.QueryRowContext(ctx,
		`SELECT min_value, max_value, empty FROM file_bounds WHERE file_path = ? AND column_name = ?`,
		filePath, column,
	).Scan(&min, &max, &empty)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
			fmt.Sprintf("failed to get bounds for %s/%s", filePath, column), err)
	}

	if empty != 0 {
		b := types.EmptyBounds()
		return &b, nil
	}
	b := types.NewBounds(min.Int64, max.Int64)
	return &b, nil
}

// FilesPossiblyContaining returns files whose recorded bounds for the
// column include v. Files with no recorded bounds for the column are not
// returned; absence of a zone map is not evidence either way, so callers
// treating this as a pruning hint must union in unindexed files
// themselves.
func (c *Catalog) FilesPossiblyContaining(ctx context.Context, column string, v int64) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT file_path FROM file_bounds
		 WHERE column_name = ? AND empty = 0 AND min_value <= ? AND max_value >= ?
		 ORDER BY file_path`,
		column, v, v,
	)
	if err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite,
			fmt.Sprintf("failed to query bounds for column %s", column), err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to scan file path", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "error iterating file bounds", err)
	}
	return files, nil
}

func scanRunColumn(rows *sql.Rows) (RunColumn, error) {
	var col RunColumn
	var oldType, newType string
	var min, max sql.NullInt64
	var empty int

	if err := rows.Scan(&col.Name, &oldType, &newType, &min, &max, &empty); err != nil {
		return col, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "failed to scan run column", err)
	}

	var err error
	if col.OldType, err = types.ParseLogicalType(oldType); err != nil {
		return col, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "invalid old_type in catalog", err)
	}
	if col.NewType, err = types.ParseLogicalType(newType); err != nil {
		return col, cerrors.NewCatalogError(cerrors.CodeCatalogWrite, "invalid new_type in catalog", err)
	}

	if empty != 0 {
		col.Bounds = types.EmptyBounds()
	} else {
		col.Bounds = types.NewBounds(min.Int64, max.Int64)
	}
	return col, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
