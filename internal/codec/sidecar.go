package codec

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cinchdb/cinch/internal/bloom"
	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/internal/narrow"
	"github.com/cinchdb/cinch/pkg/types"
)

// Sidecar is the JSON metadata written alongside a CCF file. It carries
// per-column bounds and value filters so a caller can prune files — rule
// out that a file contains a value, or see a column's range — without
// reading the column data.
type Sidecar struct {
	File      string       `json:"file"`
	RowCount  int          `json:"row_count"`
	CreatedAt time.Time    `json:"created_at"`
	Columns   []ColumnMeta `json:"columns"`
}

// ColumnMeta summarizes one column.
type ColumnMeta struct {
	Name      string            `json:"name"`
	Type      types.LogicalType `json:"type"`
	Nullable  bool              `json:"nullable"`
	NullCount int               `json:"null_count"`

	// Bounds are the scanned min/max of non-null values; integer
	// columns only.
	Bounds *types.Bounds `json:"bounds,omitempty"`

	// Filter is a base64 bloom filter of the column's non-null values;
	// integer columns only.
	Filter          string `json:"filter,omitempty"`
	FilterAlgorithm string `json:"filter_algorithm,omitempty"`
}

// SidecarPath returns the sidecar path for a CCF file.
func SidecarPath(path string) string {
	return path + ".meta.json"
}

// BuildSidecar computes sidecar metadata for a table. Bounds come from a
// data scan, never from the schema's nullable flag or declared widths.
func BuildSidecar(file string, t *types.Table) *Sidecar {
	sc := &Sidecar{
		File:      file,
		RowCount:  t.RowCount(),
		CreatedAt: time.Now().UTC(),
	}

	for _, col := range t.Columns() {
		meta := ColumnMeta{
			Name:     col.Name(),
			Type:     col.Type(),
			Nullable: col.Nullable(),
		}

		if col.Type().IsInteger() {
			b := narrow.ColumnBounds(col)
			meta.Bounds = &b

			filter := bloom.NewWithEstimates(t.RowCount(), 0.01)
			scanner := col.Scan()
			for {
				v, ok := scanner.Next()
				if !ok {
					break
				}
				if v.IsNull() {
					meta.NullCount++
					continue
				}
				filter.Add(v.Int64())
			}
			meta.Filter = filter.SerializeToBase64()
			meta.FilterAlgorithm = "murmur3_128"
		} else {
			scanner := col.Scan()
			for {
				v, ok := scanner.Next()
				if !ok {
					break
				}
				if v.IsNull() {
					meta.NullCount++
				}
			}
		}

		sc.Columns = append(sc.Columns, meta)
	}
	return sc
}

// WriteSidecar writes sidecar metadata for a table next to its CCF file.
func WriteSidecar(path string, t *types.Table) error {
	sc := BuildSidecar(path, t)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed, "failed to marshal sidecar", err)
	}
	if err := os.WriteFile(SidecarPath(path), data, 0644); err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed,
			fmt.Sprintf("failed to write sidecar for %s", path), err)
	}
	return nil
}

// ReadSidecar loads the sidecar for a CCF file.
func ReadSidecar(path string) (*Sidecar, error) {
	data, err := os.ReadFile(SidecarPath(path))
	if err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
			fmt.Sprintf("failed to read sidecar for %s", path), err)
	}
	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
			fmt.Sprintf("invalid sidecar for %s", path), err)
	}
	return &sc, nil
}

// Column returns the metadata for a named column.
func (s *Sidecar) Column(name string) (ColumnMeta, bool) {
	for _, meta := range s.Columns {
		if meta.Name == name {
			return meta, true
		}
	}
	return ColumnMeta{}, false
}

// MightContain reports whether the named integer column might contain v,
// using the column's bounds and value filter. A false result is
// definitive. Columns without filter metadata report true: absence of
// evidence is not evidence of absence.
func (s *Sidecar) MightContain(column string, v int64) bool {
	meta, ok := s.Column(column)
	if !ok || meta.Filter == "" {
		return true
	}
	if meta.Bounds != nil {
		if meta.Bounds.Empty || v < meta.Bounds.Min || v > meta.Bounds.Max {
			return false
		}
	}
	filter, err := bloom.DeserializeFromBase64(meta.Filter)
	if err != nil {
		return true
	}
	return filter.MightContain(v)
}
