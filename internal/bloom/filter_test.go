package bloom

import "testing"

func TestValueFilter_AddAndQuery(t *testing.T) {
	filter := NewWithEstimates(1000, 0.01)

	values := []int64{0, 1, -1, 127, -128, 32767, 2147483648, -9000000000}
	for _, v := range values {
		filter.Add(v)
	}

	for _, v := range values {
		if !filter.MightContain(v) {
			t.Errorf("MightContain(%d) = false for an added value", v)
		}
	}
	if filter.Count() != uint64(len(values)) {
		t.Errorf("Count: got %d, want %d", filter.Count(), len(values))
	}
}

func TestValueFilter_FalsePositiveRate(t *testing.T) {
	n := 10000
	filter := NewWithEstimates(n, 0.01)
	for i := 0; i < n; i++ {
		filter.Add(int64(i))
	}

	falsePositives := 0
	probes := 10000
	for i := 0; i < probes; i++ {
		if filter.MightContain(int64(1000000 + i)) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / float64(probes)
	if rate > 0.03 {
		t.Errorf("false positive rate %.4f exceeds 3x the 1%% target", rate)
	}
}

func TestValueFilter_EmptyFilter(t *testing.T) {
	filter := NewWithEstimates(100, 0.01)
	for _, v := range []int64{0, 1, -1, 42} {
		if filter.MightContain(v) {
			t.Errorf("empty filter claimed to contain %d", v)
		}
	}
}

func TestOptimalParameters(t *testing.T) {
	numBits, numHashes := OptimalParameters(1000, 0.01)
	if numBits <= 0 || numHashes <= 0 {
		t.Fatalf("got %d bits, %d hashes", numBits, numHashes)
	}
	if f := New(numBits, numHashes); f.NumBits()%64 != 0 {
		t.Errorf("NumBits %d not rounded to word size", f.NumBits())
	}

	// Tighter targets need more bits.
	tighterBits, _ := OptimalParameters(1000, 0.001)
	if tighterBits <= numBits {
		t.Errorf("0.1%% target should need more bits than 1%%: %d vs %d", tighterBits, numBits)
	}
}

func TestSerialization_RoundTrip(t *testing.T) {
	filter := NewWithEstimates(500, 0.01)
	values := []int64{7, -300, 65536, 1234567890123}
	for _, v := range values {
		filter.Add(v)
	}

	data := filter.Serialize()
	restored, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if restored.NumBits() != filter.NumBits() || restored.NumHashes() != filter.NumHashes() {
		t.Error("parameters changed across serialization")
	}
	if restored.Count() != filter.Count() {
		t.Errorf("count: got %d, want %d", restored.Count(), filter.Count())
	}
	for _, v := range values {
		if !restored.MightContain(v) {
			t.Errorf("restored filter lost value %d", v)
		}
	}
}

func TestSerialization_Base64RoundTrip(t *testing.T) {
	filter := NewWithEstimates(100, 0.01)
	filter.Add(42)

	encoded := filter.SerializeToBase64()
	restored, err := DeserializeFromBase64(encoded)
	if err != nil {
		t.Fatalf("DeserializeFromBase64: %v", err)
	}
	if !restored.MightContain(42) {
		t.Error("restored filter lost its value")
	}

	if _, err := DeserializeFromBase64("not base64 !!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestDeserialize_Invalid(t *testing.T) {
	if _, err := Deserialize([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}
}
