// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the raw, dtype-tagged buffers that model
// parameters are stored in.
//
// # Basic Usage
//
//	import "github.com/born-ml/hparamfile/tensor"
//
//	func main() {
//	    w, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	    fmt.Println(w.Shape(), w.DType(), w.ByteSize()) // [2 3] float32 24
//	}
//
// Element bytes are kept in host order; the serialization package converts
// them to little-endian on disk.
package tensor

import (
	"github.com/born-ml/hparamfile/internal/tensor"
)

// Shape is a tensor's dimensions, outermost first.
type Shape = tensor.Shape

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// DType constrains the Go element types FromSlice accepts.
type DType = tensor.DType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Float16 = tensor.Float16
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// RawTensor is a contiguous, row-major tensor buffer.
type RawTensor = tensor.RawTensor

// NewRaw allocates a zeroed tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromFloat32AsHalf converts data to IEEE 754 half precision.
func FromFloat32AsHalf(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromFloat32AsHalf(data, shape)
}

// ParseDataType converts a name such as "float32" to a DataType.
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}
