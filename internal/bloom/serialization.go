package bloom

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// Serialize converts the filter to its byte representation:
//   - 8 bytes: numBits (uint64, little-endian)
//   - 8 bytes: numHashes (uint64, little-endian)
//   - 8 bytes: count (uint64, little-endian)
//   - remaining: bit array ([]uint64, little-endian)
func (f *ValueFilter) Serialize() []byte {
	const headerSize = 3 * 8
	buf := make([]byte, headerSize+len(f.bits)*8)

	binary.LittleEndian.PutUint64(buf[0:8], f.numBits)
	binary.LittleEndian.PutUint64(buf[8:16], f.numHashes)
	binary.LittleEndian.PutUint64(buf[16:24], f.count)

	for i, word := range f.bits {
		binary.LittleEndian.PutUint64(buf[headerSize+i*8:], word)
	}
	return buf
}

// SerializeToBase64 returns the filter as a base64 string, the form used
// in JSON sidecars.
func (f *ValueFilter) SerializeToBase64() string {
	return base64.StdEncoding.EncodeToString(f.Serialize())
}

// Deserialize reconstructs a filter from serialized bytes.
func Deserialize(data []byte) (*ValueFilter, error) {
	if len(data) < 24 {
		return nil, errors.New("bloom: serialized data too short")
	}

	numBits := binary.LittleEndian.Uint64(data[0:8])
	numHashes := binary.LittleEndian.Uint64(data[8:16])
	count := binary.LittleEndian.Uint64(data[16:24])

	if numBits == 0 || numBits%64 != 0 {
		return nil, fmt.Errorf("bloom: invalid bit count %d", numBits)
	}
	if numHashes == 0 {
		return nil, errors.New("bloom: hash count cannot be zero")
	}

	numWords := int(numBits / 64)
	if len(data) < 24+numWords*8 {
		return nil, fmt.Errorf("bloom: expected %d bytes, got %d", 24+numWords*8, len(data))
	}

	bits := make([]uint64, numWords)
	for i := range bits {
		bits[i] = binary.LittleEndian.Uint64(data[24+i*8:])
	}

	return &ValueFilter{
		bits:      bits,
		numBits:   numBits,
		numHashes: numHashes,
		count:     count,
	}, nil
}

// DeserializeFromBase64 reconstructs a filter from its base64 form.
func DeserializeFromBase64(s string) (*ValueFilter, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bloom: invalid base64 data: %w", err)
	}
	return Deserialize(data)
}
