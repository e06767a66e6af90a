package tensor

import (
	"errors"
	"math"
	"testing"
)

// RawTensor Tests

func TestNewRawZeroed(t *testing.T) {
	raw, err := NewRaw(Shape{3, 2}, Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", raw.ByteSize())
	}
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %f, want 0", i, v)
		}
	}
}

func TestNewRawInvalid(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := NewRaw(Shape{2}, DataType(99)); err == nil {
		t.Error("expected error for unknown dtype")
	}
}

func TestRawTensorScalar(t *testing.T) {
	raw, err := NewRaw(Shape{}, Float64)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.NumElements() != 1 || raw.ByteSize() != 8 {
		t.Errorf("scalar: elements=%d bytes=%d, want 1 and 8", raw.NumElements(), raw.ByteSize())
	}
}

func TestRawTensorAsInt64(t *testing.T) {
	raw, _ := NewRaw(Shape{3, 2}, Int64)
	data := raw.AsInt64()

	if len(data) != 6 {
		t.Errorf("AsInt64 length = %d, want 6", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 42
	if raw.AsInt64()[0] != 42 {
		t.Error("AsInt64 should return zero-copy slice")
	}
}

func TestRawTensorAsBool(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Bool)
	data := raw.AsBool()
	data[3] = true
	if raw.Data()[3] != 1 {
		t.Error("AsBool should return zero-copy slice")
	}
}

func TestRawTensorWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int32)
	defer func() {
		if recover() == nil {
			t.Error("AsFloat32 on int32 tensor should panic")
		}
	}()
	_ = raw.AsFloat32()
}

func TestFromSlice(t *testing.T) {
	raw, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if raw.DType() != Float32 {
		t.Errorf("dtype = %s, want float32", raw.DType())
	}
	if got := raw.AsFloat32()[5]; got != 6 {
		t.Errorf("element 5 = %f, want 6", got)
	}

	if _, err := FromSlice([]int32{1, 2, 3}, Shape{2, 2}); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestFromFloat32AsHalf(t *testing.T) {
	raw, err := FromFloat32AsHalf([]float32{0.5, -2, 1.0 / 3}, Shape{3})
	if err != nil {
		t.Fatalf("FromFloat32AsHalf failed: %v", err)
	}
	if raw.ByteSize() != 6 {
		t.Errorf("ByteSize = %d, want 6", raw.ByteSize())
	}
	values, err := raw.Float32s()
	if err != nil {
		t.Fatalf("Float32s failed: %v", err)
	}
	if values[0] != 0.5 || values[1] != -2 {
		t.Errorf("exact halves changed: %v", values)
	}
	if math.Abs(float64(values[2])-1.0/3) > 1e-3 {
		t.Errorf("1/3 rounded to %f", values[2])
	}
}

func TestFloat32sRejectsIntegers(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Int64)
	if _, err := raw.Float32s(); err == nil {
		t.Error("expected error for int64 tensor")
	}
}

func TestCloneIsDeep(t *testing.T) {
	raw, _ := FromSlice([]float64{1, 2}, Shape{2})
	clone := raw.Clone()
	if !clone.Equal(raw) {
		t.Fatal("clone should equal original")
	}
	clone.AsFloat64()[0] = 7
	if raw.AsFloat64()[0] != 1 {
		t.Error("mutating clone changed original")
	}
	if clone.Equal(raw) {
		t.Error("tensors with different data should not be equal")
	}
}

func TestEqualComparesBits(t *testing.T) {
	nan := float32(math.NaN())
	a, _ := FromSlice([]float32{nan, 0}, Shape{2})
	b, _ := FromSlice([]float32{nan, 0}, Shape{2})
	if !a.Equal(b) {
		t.Error("identical NaN bits should compare equal")
	}

	negZero, _ := FromSlice([]float32{float32(math.Copysign(0, -1)), 0}, Shape{2})
	zero, _ := FromSlice([]float32{0, 0}, Shape{2})
	if negZero.Equal(zero) {
		t.Error("-0 and +0 differ bitwise")
	}

	reshaped, _ := FromSlice([]float32{0, 0}, Shape{1, 2})
	if zero.Equal(reshaped) {
		t.Error("different shapes should not be equal")
	}
}

func TestZero(t *testing.T) {
	raw, _ := FromSlice([]int32{5, 6, 7}, Shape{3})
	raw.Zero()
	for i, v := range raw.AsInt32() {
		if v != 0 {
			t.Errorf("element %d = %d after Zero", i, v)
		}
	}
}

func TestNewRawOverflow(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		dtype DataType
	}{
		{"element count wraps", Shape{4, math.MaxInt/4 + 1}, Float32},
		{"element count overflows", Shape{math.MaxInt/2 + 1, 2}, Uint8},
		{"byte size overflows", Shape{math.MaxInt/4 + 1}, Float64},
		{"over limit", Shape{1 << 20, 1 << 20}, Float32},
		{"just over limit", Shape{MaxByteSize/4 + 1}, Float32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := NewRaw(tt.shape, tt.dtype)
			if !errors.Is(err, ErrTooLarge) {
				t.Fatalf("expected ErrTooLarge, got tensor %v and error %v", raw, err)
			}
		})
	}
}

func TestShapeByteSize(t *testing.T) {
	size, err := Shape{3, 5}.ByteSize(Float16)
	if err != nil {
		t.Fatalf("ByteSize failed: %v", err)
	}
	if size != 30 {
		t.Errorf("ByteSize = %d, want 30", size)
	}
	if _, err := (Shape{MaxByteSize / 8}).ByteSize(Float64); err != nil {
		t.Errorf("a tensor of exactly MaxByteSize bytes is allowed, got %v", err)
	}
	if _, err := (Shape{MaxByteSize/8 + 1}).ByteSize(Float64); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
