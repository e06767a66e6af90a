package tensor

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// RawTensor is the low-level tensor representation: a dense row-major byte
// buffer plus its shape and element type.
//
// Elements are stored in host byte order. Writers of portable formats are
// expected to convert to a fixed byte order themselves.
type RawTensor struct {
	data  []byte
	shape Shape
	dtype DataType
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zeroed. Shapes larger than MaxByteSize fail with
// ErrTooLarge instead of being allocated.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("invalid data type: %d", int(dtype))
	}
	size, err := shape.ByteSize(dtype)
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:  make([]byte, size),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromSlice creates a RawTensor holding a copy of data.
//
// Example:
//
//	w, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	var zero T
	raw, err := NewRaw(shape, inferDataType(zero))
	if err != nil {
		return nil, err
	}
	if len(data) != raw.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, raw.NumElements())
	}
	copy(viewAs[T](raw), data)
	return raw, nil
}

// FromFloat32AsHalf creates a Float16 RawTensor by rounding each value of data
// to the nearest half-precision number.
func FromFloat32AsHalf(data []float32, shape Shape) (*RawTensor, error) {
	raw, err := NewRaw(shape, Float16)
	if err != nil {
		return nil, err
	}
	if len(data) != raw.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, raw.NumElements())
	}
	halves := raw.AsFloat16()
	for i, v := range data {
		halves[i] = float16.Fromfloat32(v)
	}
	return raw, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// viewAs reinterprets the buffer as []T without copying.
func viewAs[T any](r *RawTensor) []T {
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

func (r *RawTensor) mustBe(dt DataType) {
	if r.dtype != dt {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	r.mustBe(Float32)
	return viewAs[float32](r)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	r.mustBe(Float64)
	return viewAs[float64](r)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	r.mustBe(Int32)
	return viewAs[int32](r)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	r.mustBe(Int64)
	return viewAs[int64](r)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	r.mustBe(Uint8)
	return r.data
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	r.mustBe(Bool)
	return viewAs[bool](r)
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	r.mustBe(Float16)
	return viewAs[float16.Float16](r)
}

// Float32s returns a float32 copy of a floating point tensor.
// Float16 and Float64 values are converted; other dtypes return an error.
func (r *RawTensor) Float32s() ([]float32, error) {
	out := make([]float32, r.NumElements())
	switch r.dtype {
	case Float32:
		copy(out, r.AsFloat32())
	case Float64:
		for i, v := range r.AsFloat64() {
			out[i] = float32(v)
		}
	case Float16:
		for i, v := range r.AsFloat16() {
			out[i] = v.Float32()
		}
	default:
		return nil, fmt.Errorf("tensor dtype %s is not a floating point type", r.dtype)
	}
	return out, nil
}

// Zero overwrites every element with zero bits.
func (r *RawTensor) Zero() {
	clear(r.data)
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:  bytes.Clone(r.data),
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
}

// Equal reports whether both tensors have the same shape, dtype and bytes.
// Floating point values are compared bitwise, so NaN payloads must match too.
func (r *RawTensor) Equal(other *RawTensor) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.dtype == other.dtype && r.shape.Equal(other.shape) && bytes.Equal(r.data, other.data)
}
