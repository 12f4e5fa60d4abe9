package codec

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/pkg/types"
	"github.com/golang/snappy"
)

// Read deserializes a table from path. The schema is taken from the file
// as written: nullable flags and integer widths are producer metadata and
// pass through unmodified, whatever the data actually contains. Column
// blocks are read one at a time in file order, so peak memory is bounded
// by one decoded column plus the assembled table.
func Read(path string) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
			fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile, "truncated header", err)
	}
	h, err := decodeHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	schemaJSON, err := readBlock(r, "schema")
	if err != nil {
		return nil, err
	}
	var schema types.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile, "invalid schema block", err)
	}
	if uint32(len(schema.Columns)) != h.columnCount {
		return nil, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeCorruptFile,
			fmt.Sprintf("header declares %d columns, schema has %d", h.columnCount, len(schema.Columns)))
	}

	rows := int(h.rowCount)
	columns := make([]*types.Column, len(schema.Columns))
	for i, def := range schema.Columns {
		payload, err := readBlock(r, fmt.Sprintf("column %q", def.Name))
		if err != nil {
			return nil, err
		}
		if h.compression == CompressionSnappy {
			payload, err = snappy.Decode(nil, payload)
			if err != nil {
				return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
					fmt.Sprintf("failed to decompress column %q", def.Name), err)
			}
		}
		col, err := decodeColumn(def, rows, payload)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}

	table, err := types.NewTable(columns)
	if err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile, "inconsistent table", err)
	}
	return table, nil
}

// decodeColumn decodes one uncompressed column block.
func decodeColumn(def types.ColumnDef, rows int, payload []byte) (*types.Column, error) {
	width := def.Type.ByteWidth()
	bitmap := bitmapLen(rows)
	if len(payload) != columnBlockLen(def.Type, rows) {
		return nil, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeCorruptFile,
			fmt.Sprintf("column %q: block is %d bytes, expected %d",
				def.Name, len(payload), columnBlockLen(def.Type, rows)))
	}

	values := make([]types.Value, rows)
	for i := 0; i < rows; i++ {
		if payload[i/8]&(1<<(i%8)) != 0 {
			values[i] = types.Null()
			continue
		}
		values[i] = getValue(payload[bitmap+i*width:], def.Type)
	}

	col, err := types.NewColumn(def.Name, def.Type, def.Nullable, values)
	if err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
			fmt.Sprintf("column %q: decoded data violates its schema", def.Name), err)
	}
	return col, nil
}

// getValue decodes a single present value at the given width.
func getValue(buf []byte, typ types.LogicalType) types.Value {
	switch typ {
	case types.Int8:
		return types.Present(int64(int8(buf[0])))
	case types.Int16:
		return types.Present(int64(int16(binary.LittleEndian.Uint16(buf))))
	case types.Int32:
		return types.Present(int64(int32(binary.LittleEndian.Uint32(buf))))
	case types.Float64:
		return types.PresentFloat(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	default:
		return types.Present(int64(binary.LittleEndian.Uint64(buf)))
	}
}
