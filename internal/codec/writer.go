package codec

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/pkg/types"
	"github.com/golang/snappy"
)

// Write serializes a table to path. The file is written to a temporary
// name in the same directory and renamed into place on success, so a
// failed write leaves no partial file behind.
func Write(path string, t *types.Table, opts Options) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed,
			fmt.Sprintf("failed to create %s", tmp), err)
	}

	if err := writeTable(f, t, opts); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return cerrors.NewCodecError(cerrors.CodeWriteFailed, "failed to close output file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return cerrors.NewCodecError(cerrors.CodeWriteFailed,
			fmt.Sprintf("failed to rename %s", filepath.Base(tmp)), err)
	}
	return nil
}

func writeTable(f *os.File, t *types.Table, opts Options) error {
	w := bufio.NewWriter(f)

	h := header{
		version:     formatVersion,
		compression: opts.Compression,
		rowCount:    uint64(t.RowCount()),
		columnCount: uint32(t.NumColumns()),
	}
	if _, err := w.Write(h.encode()); err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed, "failed to write header", err)
	}

	// Schema block stays uncompressed so a file's layout can be
	// inspected without the column codec.
	schemaJSON, err := json.Marshal(t.Schema())
	if err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed, "failed to marshal schema", err)
	}
	if err := writeBlock(w, schemaJSON); err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed, "failed to write schema block", err)
	}

	for _, col := range t.Columns() {
		payload := encodeColumn(col)
		if opts.Compression == CompressionSnappy {
			payload = snappy.Encode(nil, payload)
		}
		if err := writeBlock(w, payload); err != nil {
			return cerrors.NewCodecError(cerrors.CodeWriteFailed,
				fmt.Sprintf("failed to write column %q", col.Name()), err)
		}
	}

	if err := w.Flush(); err != nil {
		return cerrors.NewCodecError(cerrors.CodeWriteFailed, "failed to flush output", err)
	}
	return nil
}

// encodeColumn produces the uncompressed column block: a null bitmap (bit
// set means the row is null) followed by the values at the column's
// declared width, little-endian. Null rows are encoded as zero.
func encodeColumn(col *types.Column) []byte {
	rows := col.Len()
	typ := col.Type()
	width := typ.ByteWidth()
	bitmap := bitmapLen(rows)

	buf := make([]byte, columnBlockLen(typ, rows))
	scanner := col.Scan()
	for i := 0; ; i++ {
		v, ok := scanner.Next()
		if !ok {
			break
		}
		if v.IsNull() {
			buf[i/8] |= 1 << (i % 8)
			continue
		}
		putValue(buf[bitmap+i*width:], typ, v)
	}
	return buf
}

// putValue encodes a single present value at the given width.
func putValue(buf []byte, typ types.LogicalType, v types.Value) {
	switch typ {
	case types.Int8:
		buf[0] = byte(int8(v.Int64()))
	case types.Int16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(v.Int64())))
	case types.Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v.Int64())))
	case types.Int64, types.Float64:
		// Float payloads are already carried as their IEEE-754 bit
		// pattern, so both widths encode the raw 64-bit carrier.
		binary.LittleEndian.PutUint64(buf, uint64(v.Int64()))
	}
}
