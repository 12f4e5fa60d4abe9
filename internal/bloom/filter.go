// Package bloom provides a probabilistic membership filter over integer
// column values. Filters are written into file sidecars so a caller can
// rule out files that definitely do not contain a value without reading
// the column data itself.
package bloom

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

// ValueFilter is a bloom filter keyed on int64 column values. It
// guarantees no false negatives: if a value was added, MightContain
// always returns true. Build a filter from a single goroutine; a
// populated filter is safe for concurrent reads.
type ValueFilter struct {
	bits      []uint64
	numBits   uint64
	numHashes uint64
	count     uint64
}

// New creates a ValueFilter with the specified number of bits and hash
// functions. The bit count is rounded up to a multiple of 64.
func New(numBits, numHashes int) *ValueFilter {
	if numBits <= 0 {
		numBits = 1024
	}
	if numHashes <= 0 {
		numHashes = 7
	}
	numWords := (numBits + 63) / 64
	return &ValueFilter{
		bits:      make([]uint64, numWords),
		numBits:   uint64(numWords * 64),
		numHashes: uint64(numHashes),
	}
}

// NewWithEstimates creates a ValueFilter sized for the expected number of
// distinct values and target false positive rate.
func NewWithEstimates(expectedValues int, targetFPR float64) *ValueFilter {
	numBits, numHashes := OptimalParameters(expectedValues, targetFPR)
	return New(numBits, numHashes)
}

// OptimalParameters calculates the optimal number of bits and hash
// functions for a given expected value count and target false positive
// rate, using m = -n*ln(p)/ln(2)^2 and k = (m/n)*ln(2).
func OptimalParameters(expectedValues int, targetFPR float64) (numBits, numHashes int) {
	if expectedValues <= 0 {
		expectedValues = 1000
	}
	if targetFPR <= 0 || targetFPR >= 1 {
		targetFPR = 0.01
	}

	n := float64(expectedValues)
	m := -n * math.Log(targetFPR) / (math.Ln2 * math.Ln2)
	numBits = int(math.Ceil(m))
	numHashes = int(math.Ceil((m / n) * math.Ln2))

	if numBits < 64 {
		numBits = 64
	}
	if numHashes < 1 {
		numHashes = 1
	}
	return numBits, numHashes
}

// Add records a value in the filter.
func (f *ValueFilter) Add(v int64) {
	h1, h2 := hashValue(v)
	for i := uint64(0); i < f.numHashes; i++ {
		// Double hashing: h(i) = h1 + i*h2
		pos := (h1 + i*h2) % f.numBits
		f.bits[pos/64] |= 1 << (pos % 64)
	}
	f.count++
}

// MightContain reports whether the value might be in the filter. A false
// result is definitive; a true result may be a false positive.
func (f *ValueFilter) MightContain(v int64) bool {
	h1, h2 := hashValue(v)
	for i := uint64(0); i < f.numHashes; i++ {
		pos := (h1 + i*h2) % f.numBits
		if f.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// hashValue computes the murmur3 128-bit hash of the value's
// little-endian encoding and returns it as two 64-bit halves.
func hashValue(v int64) (uint64, uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return murmur3.Sum128(buf[:])
}

// NumBits returns the number of bits in the filter.
func (f *ValueFilter) NumBits() int {
	return int(f.numBits)
}

// NumHashes returns the number of hash functions used.
func (f *ValueFilter) NumHashes() int {
	return int(f.numHashes)
}

// Count returns the number of values added to the filter, counting
// duplicates.
func (f *ValueFilter) Count() uint64 {
	return f.count
}

// FalsePositiveRate estimates the current false positive rate from the
// fill ratio: (1 - e^(-k*n/m))^k.
func (f *ValueFilter) FalsePositiveRate() float64 {
	if f.count == 0 {
		return 0
	}
	k := float64(f.numHashes)
	n := float64(f.count)
	m := float64(f.numBits)
	return math.Pow(1-math.Exp(-k*n/m), k)
}
