package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// LinearConfig holds the hyperparameters of a standalone Linear layer.
type LinearConfig struct {
	InFeatures  int    `json:"in_features"`
	OutFeatures int    `json:"out_features"`
	NoBias      bool   `json:"no_bias,omitempty"`
	DType       string `json:"dtype,omitempty"`
}

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = W x + b
// where:
//   - x is the input vector with shape [in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//
// A new Linear holds zeros; call Init for Xavier weights.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features], nil without bias
}

// NewLinear creates a zero-initialized Linear layer.
func NewLinear(inFeatures, outFeatures int, useBias bool, dtype tensor.DataType) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, &ConfigError{
			Field:   "features",
			Details: fmt.Sprintf("in=%d out=%d (must be > 0)", inFeatures, outFeatures),
		}
	}

	weightTensor, err := Zeros(tensor.Shape{outFeatures, inFeatures}, dtype)
	if err != nil {
		return nil, fmt.Errorf("failed to create weight: %w", err)
	}
	l := &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weightTensor),
	}

	if useBias {
		biasTensor, err := Zeros(tensor.Shape{outFeatures}, dtype)
		if err != nil {
			return nil, fmt.Errorf("failed to create bias: %w", err)
		}
		l.bias = NewParameter("bias", biasTensor)
	}
	return l, nil
}

// NewLinearFromConfig builds a zero-initialized Linear layer from cfg.
func NewLinearFromConfig(cfg LinearConfig) (*Linear, error) {
	dtype, err := parseFloatDType(cfg.DType)
	if err != nil {
		return nil, err
	}
	return NewLinear(cfg.InFeatures, cfg.OutFeatures, !cfg.NoBias, dtype)
}

// LinearConfigFrom reads a LinearConfig from untyped hyperparameters.
func LinearConfigFrom(h hparams.Hyperparameters) (LinearConfig, error) {
	var cfg LinearConfig
	var err error
	if cfg.InFeatures, err = h.Int("in_features"); err != nil {
		return cfg, err
	}
	if cfg.OutFeatures, err = h.Int("out_features"); err != nil {
		return cfg, err
	}
	if h.Has("no_bias") {
		if cfg.NoBias, err = h.Bool("no_bias"); err != nil {
			return cfg, err
		}
	}
	if h.Has("dtype") {
		if cfg.DType, err = h.String("dtype"); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Init fills the weight with Xavier values drawn from rng and zeroes the bias.
func (l *Linear) Init(rng *rand.Rand) {
	Xavier(rng, l.inFeatures, l.outFeatures, l.weight.Tensor())
	if l.bias != nil {
		l.bias.Tensor().Zero()
	}
}

// Forward computes y = W x + b for a single input vector.
func (l *Linear) Forward(input []float32) ([]float32, error) {
	if len(input) != l.inFeatures {
		return nil, fmt.Errorf("linear: expected input with %d features, got %d", l.inFeatures, len(input))
	}

	w, err := l.weight.Tensor().Float32s()
	if err != nil {
		return nil, fmt.Errorf("linear: weight: %w", err)
	}
	weights := mat.NewDense(l.outFeatures, l.inFeatures, widen(w))
	x := mat.NewVecDense(l.inFeatures, widen(input))

	var y mat.VecDense
	y.MulVec(weights, x)

	if l.bias != nil {
		b, err := l.bias.Tensor().Float32s()
		if err != nil {
			return nil, fmt.Errorf("linear: bias: %w", err)
		}
		y.AddVec(&y, mat.NewVecDense(l.outFeatures, widen(b)))
	}

	output := make([]float32, l.outFeatures)
	for i := range output {
		output[i] = float32(y.AtVec(i))
	}
	return output, nil
}

// Parameters returns [weight, bias], or [weight] without bias.
func (l *Linear) Parameters() []*Parameter {
	if l.bias != nil {
		return []*Parameter{l.weight, l.bias}
	}
	return []*Parameter{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter, or nil.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

func widen(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
