package tensor

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// MaxByteSize bounds the buffer of a single tensor (4GB).
const MaxByteSize = 1 << 32

// ErrTooLarge is returned for shapes whose size overflows or exceeds MaxByteSize.
var ErrTooLarge = errors.New("tensor too large")

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive and that the element
// count fits in an int.
func (s Shape) Validate() error {
	n := uint64(1)
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
		hi, lo := bits.Mul64(n, uint64(dim))
		if hi != 0 || lo > math.MaxInt {
			return fmt.Errorf("%w: shape %v overflows the element count", ErrTooLarge, s)
		}
		n = lo
	}
	return nil
}

// ByteSize returns the buffer size of a tensor of this shape and dtype.
// It fails if the shape is invalid or the size exceeds MaxByteSize.
func (s Shape) ByteSize(dtype DataType) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	n := s.NumElements()
	if uint64(n) > MaxByteSize/uint64(dtype.Size()) || n > math.MaxInt/dtype.Size() {
		return 0, fmt.Errorf("%w: shape %v of %s needs more than %d bytes", ErrTooLarge, s, dtype, uint64(MaxByteSize))
	}
	return n * dtype.Size(), nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as "[2 3]"; scalars print as "[]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
