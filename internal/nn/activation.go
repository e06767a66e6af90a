package nn

import (
	"fmt"
	"math"
)

// Activation names an element-wise activation function.
type Activation string

// Supported activations.
const (
	ReLU     Activation = "relu"
	Tanh     Activation = "tanh"
	Identity Activation = "identity"
)

// apply evaluates the activation on x.
func (a Activation) apply(x float32) float32 {
	switch a {
	case ReLU:
		if x < 0 {
			return 0
		}
		return x
	case Tanh:
		return float32(math.Tanh(float64(x)))
	default:
		return x
	}
}

// ActivationLayer applies an Activation element-wise. It has no parameters.
//
// Example:
//
//	relu := nn.NewActivation(nn.ReLU)
//	output, _ := relu.Forward(input)  // All negative values become 0
type ActivationLayer struct {
	fn Activation
}

// NewActivation creates an activation layer. Unknown names panic.
func NewActivation(fn Activation) *ActivationLayer {
	switch fn {
	case ReLU, Tanh, Identity:
	default:
		panic(fmt.Sprintf("nn: unknown activation %q", fn))
	}
	return &ActivationLayer{fn: fn}
}

// Forward applies the activation to every element of input.
func (a *ActivationLayer) Forward(input []float32) ([]float32, error) {
	output := make([]float32, len(input))
	for i, x := range input {
		output[i] = a.fn.apply(x)
	}
	return output, nil
}

// Parameters returns nil: activations hold no weights.
func (a *ActivationLayer) Parameters() []*Parameter {
	return nil
}

// Activation returns the wrapped activation function.
func (a *ActivationLayer) Activation() Activation {
	return a.fn
}
