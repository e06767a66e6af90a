package nn

import (
	"github.com/born-ml/hparamfile/internal/tensor"
)

// Parameter represents a named leaf of a module.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
type Parameter struct {
	name   string            // Parameter name (e.g., "layers.0.weight")
	tensor *tensor.RawTensor // The parameter tensor
}

// NewParameter creates a new parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Prefixed returns params renamed to "prefix.name". The tensors are shared,
// not copied, so writes through the returned parameters reach the module.
func Prefixed(prefix string, params []*Parameter) []*Parameter {
	out := make([]*Parameter, len(params))
	for i, p := range params {
		out[i] = NewParameter(prefix+"."+p.name, p.tensor)
	}
	return out
}
