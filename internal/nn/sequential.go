package nn

import (
	"fmt"
	"strconv"
)

// Sequential is a container module that chains multiple layers together.
//
// Each layer's output becomes the next layer's input. Parameters are
// reported layer by layer, prefixed with the layer index ("0.weight",
// "0.bias", "2.weight", ...).
//
// Example:
//
//	model := nn.NewSequential(
//	    linear1,
//	    nn.NewActivation(nn.ReLU),
//	    linear2,
//	)
type Sequential struct {
	layers []Layer
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{
		layers: layers,
	}
}

// Forward applies all layers in sequence.
func (s *Sequential) Forward(input []float32) ([]float32, error) {
	output := input
	for i, layer := range s.layers {
		var err error
		output, err = layer.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return output, nil
}

// Parameters returns all parameters from all layers, in layer order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for i, layer := range s.layers {
		params = append(params, Prefixed(strconv.Itoa(i), layer.Parameters())...)
	}
	return params
}

// Add appends a layer to the sequence.
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Layers returns the layers in the container.
func (s *Sequential) Layers() []Layer {
	return s.layers
}

// Len returns the number of layers.
func (s *Sequential) Len() int {
	return len(s.layers)
}
