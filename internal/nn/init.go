package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/hparamfile/internal/tensor"
	"github.com/x448/float16"
)

// NewRand returns the deterministic generator used by Init methods.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Xavier (Glorot) initialization for weights, in place.
//
// Values are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
// and stored in the tensor's own dtype.
func Xavier(rng *rand.Rand, fanIn, fanOut int, t *tensor.RawTensor) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	fill(t, func() float64 {
		return (rng.Float64()*2.0 - 1.0) * bound
	})
}

// Zeros creates a zero-filled floating point tensor.
func Zeros(shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// fill sets every element of a floating point tensor from next.
func fill(t *tensor.RawTensor, next func() float64) {
	switch t.DType() {
	case tensor.Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(next())
		}
	case tensor.Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = next()
		}
	case tensor.Float16:
		data := t.AsFloat16()
		for i := range data {
			data[i] = float16.Fromfloat32(float32(next()))
		}
	default:
		panic("nn: cannot initialize " + t.DType().String() + " tensor")
	}
}

// parseFloatDType maps a config dtype name to a floating point DataType.
// The empty string selects float32.
func parseFloatDType(name string) (tensor.DataType, error) {
	if name == "" {
		return tensor.Float32, nil
	}
	dt, err := tensor.ParseDataType(name)
	if err != nil {
		return 0, err
	}
	switch dt {
	case tensor.Float32, tensor.Float64, tensor.Float16:
		return dt, nil
	default:
		return 0, &ConfigError{Field: "dtype", Details: dt.String() + " is not a floating point type"}
	}
}
