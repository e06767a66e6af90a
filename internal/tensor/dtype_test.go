package tensor

import "testing"

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
		{Float16, 2},
	}
	for _, tt := range tests {
		if got := tt.dt.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dt, got, tt.size)
		}
	}
}

func TestParseDataType(t *testing.T) {
	for dt := Float32; dt <= Float16; dt++ {
		parsed, err := ParseDataType(dt.String())
		if err != nil {
			t.Fatalf("ParseDataType(%q) failed: %v", dt.String(), err)
		}
		if parsed != dt {
			t.Errorf("ParseDataType(%q) = %s", dt.String(), parsed)
		}
	}
	if _, err := ParseDataType("complex64"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestShapeString(t *testing.T) {
	if got := (Shape{2, 3}).String(); got != "[2 3]" {
		t.Errorf("String() = %q", got)
	}
	if got := (Shape{}).String(); got != "[]" {
		t.Errorf("scalar String() = %q", got)
	}
}
