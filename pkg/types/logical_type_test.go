package types

import (
	"encoding/json"
	"math"
	"testing"
)

func TestLogicalType_Ranges(t *testing.T) {
	tests := []struct {
		typ  LogicalType
		min  int64
		max  int64
		wide int
	}{
		{Int8, -128, 127, 1},
		{Int16, -32768, 32767, 2},
		{Int32, -2147483648, 2147483647, 4},
		{Int64, math.MinInt64, math.MaxInt64, 8},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.MinInt(); got != tt.min {
				t.Errorf("MinInt: got %d, want %d", got, tt.min)
			}
			if got := tt.typ.MaxInt(); got != tt.max {
				t.Errorf("MaxInt: got %d, want %d", got, tt.max)
			}
			if got := tt.typ.ByteWidth(); got != tt.wide {
				t.Errorf("ByteWidth: got %d, want %d", got, tt.wide)
			}
			if !tt.typ.ContainsInt(tt.min) || !tt.typ.ContainsInt(tt.max) {
				t.Error("expected type to contain its own endpoints")
			}
		})
	}
}

func TestLogicalType_ContainsInt_Boundaries(t *testing.T) {
	if Int8.ContainsInt(128) {
		t.Error("Int8 should not contain 128")
	}
	if Int8.ContainsInt(-129) {
		t.Error("Int8 should not contain -129")
	}
	if !Int16.ContainsInt(128) {
		t.Error("Int16 should contain 128")
	}
	if Int32.ContainsInt(2147483648) {
		t.Error("Int32 should not contain 2147483648")
	}
	if !Int64.ContainsInt(2147483648) {
		t.Error("Int64 should contain 2147483648")
	}
}

func TestLogicalType_ContainsRange(t *testing.T) {
	if !Int8.ContainsRange(0, 127) {
		t.Error("Int8 should contain [0, 127]")
	}
	if Int8.ContainsRange(0, 128) {
		t.Error("Int8 should not contain [0, 128]")
	}
	if !Int16.ContainsRange(-32768, 32767) {
		t.Error("Int16 should contain its full range")
	}
}

func TestIntegerTypes_AscendingWidth(t *testing.T) {
	types := IntegerTypes()
	if len(types) != 4 {
		t.Fatalf("expected 4 integer types, got %d", len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].ByteWidth() >= types[i].ByteWidth() {
			t.Errorf("integer types not in ascending width order at %d", i)
		}
	}
}

func TestLogicalType_IsInteger(t *testing.T) {
	for _, typ := range IntegerTypes() {
		if !typ.IsInteger() {
			t.Errorf("%s should be integer", typ)
		}
	}
	if Float64.IsInteger() {
		t.Error("Float64 should not be integer")
	}
}

func TestParseLogicalType(t *testing.T) {
	for _, typ := range []LogicalType{Int8, Int16, Int32, Int64, Float64} {
		parsed, err := ParseLogicalType(typ.String())
		if err != nil {
			t.Fatalf("ParseLogicalType(%s): %v", typ, err)
		}
		if parsed != typ {
			t.Errorf("round trip: got %s, want %s", parsed, typ)
		}
	}

	if _, err := ParseLogicalType("VARCHAR"); err == nil {
		t.Error("expected error for unknown type name")
	}
}

func TestLogicalType_JSON(t *testing.T) {
	data, err := json.Marshal(Int16)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"INT16"` {
		t.Errorf("got %s, want \"INT16\"", data)
	}

	var typ LogicalType
	if err := json.Unmarshal([]byte(`"INT32"`), &typ); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if typ != Int32 {
		t.Errorf("got %s, want INT32", typ)
	}

	if err := json.Unmarshal([]byte(`"BOGUS"`), &typ); err == nil {
		t.Error("expected error for unknown type in JSON")
	}
}
