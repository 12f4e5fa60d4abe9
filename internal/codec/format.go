// Package codec reads and writes the Cinch columnar file format (CCF).
//
// A CCF file is a fixed header, a JSON schema block, and one block per
// column. Column blocks are laid out contiguously per column, so a single
// column can be consumed in one pass without touching the rest of the
// file. Every block is length-prefixed and CRC32-checked; column blocks
// may additionally be snappy-compressed.
//
// Reading a file never rewrites its schema: producer metadata such as
// always-nullable flags or always-widest integer widths passes through
// unmodified until a narrowing rewrite is explicitly requested.
package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	cerrors "github.com/cinchdb/cinch/internal/errors"
	"github.com/cinchdb/cinch/pkg/types"
)

// Compression identifies the per-block compression codec.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionSnappy
)

// String returns the name used in configuration and CLI flags.
func (c Compression) String() string {
	switch c {
	case CompressionSnappy:
		return "snappy"
	default:
		return "none"
	}
}

// ParseCompression parses a compression name.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return 0, fmt.Errorf("codec: unknown compression %q", s)
	}
}

// Options controls how a table is serialized.
type Options struct {
	Compression Compression
}

const (
	formatVersion = 1
	headerSize    = 4 + 2 + 1 + 1 + 8 + 4
)

var magic = [4]byte{'C', 'C', 'F', '1'}

// header is the fixed-size file header.
//
// Layout (little-endian):
//
//	magic       4 bytes
//	version     uint16
//	compression uint8
//	reserved    uint8
//	rowCount    uint64
//	columnCount uint32
type header struct {
	version     uint16
	compression Compression
	rowCount    uint64
	columnCount uint32
}

func (h header) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.version)
	buf[6] = byte(h.compression)
	binary.LittleEndian.PutUint64(buf[8:16], h.rowCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.columnCount)
	return buf
}

func decodeHeader(buf []byte) (header, error) {
	var h header
	if len(buf) < headerSize {
		return h, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeCorruptFile, "truncated header")
	}
	if [4]byte(buf[0:4]) != magic {
		return h, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeBadMagic, "not a CCF file")
	}
	h.version = binary.LittleEndian.Uint16(buf[4:6])
	if h.version != formatVersion {
		return h, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeUnsupportedVersion,
			fmt.Sprintf("unsupported format version %d", h.version))
	}
	h.compression = Compression(buf[6])
	if h.compression != CompressionNone && h.compression != CompressionSnappy {
		return h, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeCorruptFile,
			fmt.Sprintf("unknown compression byte %d", buf[6]))
	}
	h.rowCount = binary.LittleEndian.Uint64(buf[8:16])
	h.columnCount = binary.LittleEndian.Uint32(buf[16:20])
	return h, nil
}

// writeBlock frames a payload as [length uint32][crc32 uint32][payload].
func writeBlock(w io.Writer, payload []byte) error {
	var frame [8]byte
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(frame[4:8], crc32.ChecksumIEEE(payload))
	if _, err := w.Write(frame[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readBlock reads one framed payload and verifies its checksum. The
// context string names the block in error messages.
func readBlock(r io.Reader, context string) ([]byte, error) {
	var frame [8]byte
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
			fmt.Sprintf("truncated block frame for %s", context), err)
	}
	length := binary.LittleEndian.Uint32(frame[0:4])
	sum := binary.LittleEndian.Uint32(frame[4:8])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, cerrors.NewCodecError(cerrors.CodeCorruptFile,
			fmt.Sprintf("truncated block payload for %s", context), err)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, cerrors.New(cerrors.ErrCategoryCodec, cerrors.CodeCorruptFile,
			fmt.Sprintf("checksum mismatch for %s", context))
	}
	return payload, nil
}

// bitmapLen returns the size in bytes of a null bitmap for rows values.
func bitmapLen(rows int) int {
	return (rows + 7) / 8
}

// columnBlockLen returns the uncompressed size of a column block.
func columnBlockLen(t types.LogicalType, rows int) int {
	return bitmapLen(rows) + rows*t.ByteWidth()
}
