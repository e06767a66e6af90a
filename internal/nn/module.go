// Package nn implements the neural network modules whose parameters are
// stored in model files.
//
// This package provides:
//   - Module: anything that exposes its parameters in a fixed order
//   - Parameter: a named leaf tensor
//   - Linear: fully connected layer
//   - Activation: ReLU, Tanh, Identity
//   - Sequential: container for stacking layers
//   - MLP: multi-layer perceptron built from an MLPConfig
//
// The order returned by Parameters is the traversal order used by the
// serialization package: it depends only on a module's structure, never on
// its weight values.
package nn

import (
	"fmt"

	"github.com/born-ml/hparamfile/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Parameters must return the same leaves, in the same order, for every
// module built from the same configuration. Modules without trainable
// parameters (activations) return an empty slice.
type Module interface {
	Parameters() []*Parameter
}

// Layer is a Module that can be evaluated on a single input vector.
type Layer interface {
	Module

	// Forward computes the output for one input vector.
	Forward(input []float32) ([]float32, error)
}

// Leaves returns the parameter tensors of m in traversal order.
func Leaves(m Module) []*tensor.RawTensor {
	params := m.Parameters()
	leaves := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		leaves[i] = p.Tensor()
	}
	return leaves
}

// StateDict returns a map of parameter names to raw tensors.
func StateDict(m Module) (map[string]*tensor.RawTensor, error) {
	params := m.Parameters()
	stateDict := make(map[string]*tensor.RawTensor, len(params))
	for _, p := range params {
		if _, dup := stateDict[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate parameter name %q", p.Name())
		}
		stateDict[p.Name()] = p.Tensor()
	}
	return stateDict, nil
}

// NumElements returns the total number of scalar weights in m.
func NumElements(m Module) int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}

// Equal reports whether two modules have bitwise identical leaves in the same order.
func Equal(a, b Module) bool {
	pa, pb := a.Parameters(), b.Parameters()
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i].Name() != pb[i].Name() || !pa[i].Tensor().Equal(pb[i].Tensor()) {
			return false
		}
	}
	return true
}
