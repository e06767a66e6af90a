package nn

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/tensor"
)

// ConfigError reports an invalid hyperparameter value.
type ConfigError struct {
	Field   string
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Details)
}

// MLPConfig holds the hyperparameters that fully determine an MLP's structure.
type MLPConfig struct {
	Size    int    `json:"size"`               // Input features
	OutSize int    `json:"out_size,omitempty"` // Output features, 1 when unset
	Width   int    `json:"width"`              // Hidden layer width
	Depth   int    `json:"depth"`              // Number of hidden layers
	UseTanh bool   `json:"use_tanh"`           // tanh hidden activation instead of ReLU
	DType   string `json:"dtype,omitempty"`    // Leaf dtype, float32 when unset
}

// Validate checks the configuration without building anything.
func (c MLPConfig) Validate() error {
	switch {
	case c.Size <= 0:
		return &ConfigError{Field: "size", Details: fmt.Sprintf("%d (must be > 0)", c.Size)}
	case c.OutSize < 0:
		return &ConfigError{Field: "out_size", Details: fmt.Sprintf("%d (must be >= 0)", c.OutSize)}
	case c.Depth < 0:
		return &ConfigError{Field: "depth", Details: fmt.Sprintf("%d (must be >= 0)", c.Depth)}
	case c.Depth > 0 && c.Width <= 0:
		return &ConfigError{Field: "width", Details: fmt.Sprintf("%d (must be > 0 when depth > 0)", c.Width)}
	}
	dtype, err := parseFloatDType(c.DType)
	if err != nil {
		return err
	}
	if n := c.numParameters(); n > tensor.MaxByteSize/uint64(dtype.Size()) {
		return &ConfigError{
			Field:   "size",
			Details: fmt.Sprintf("%d parameters of %s exceed %d bytes", n, dtype, uint64(tensor.MaxByteSize)),
		}
	}
	return nil
}

// numParameters counts the scalars of the MLP described by c, saturating at
// math.MaxUint64. It is computed without building any layer.
func (c MLPConfig) numParameters() uint64 {
	size, width, depth, out := uint64(c.Size), uint64(c.Width), uint64(c.Depth), uint64(c.outSize())
	if depth == 0 {
		return satAdd(satMul(size, out), out)
	}
	hidden := satAdd(satMul(width, width), width) // each of the depth-1 inner layers
	n := satAdd(satMul(size, width), width)
	n = satAdd(n, satMul(depth-1, hidden))
	return satAdd(n, satAdd(satMul(width, out), out))
}

func satMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func satAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func (c MLPConfig) outSize() int {
	if c.OutSize == 0 {
		return 1
	}
	return c.OutSize
}

// MLPConfigFrom reads an MLPConfig from untyped hyperparameters.
// Keys the MLP does not use (such as "model") are ignored.
func MLPConfigFrom(h hparams.Hyperparameters) (MLPConfig, error) {
	var cfg MLPConfig
	var err error
	if cfg.Size, err = h.Int("size"); err != nil {
		return cfg, err
	}
	if cfg.Width, err = h.Int("width"); err != nil {
		return cfg, err
	}
	if cfg.Depth, err = h.Int("depth"); err != nil {
		return cfg, err
	}
	if cfg.UseTanh, err = h.Bool("use_tanh"); err != nil && !errors.Is(err, hparams.ErrMissingKey) {
		return cfg, err
	}
	if h.Has("out_size") {
		if cfg.OutSize, err = h.Int("out_size"); err != nil {
			return cfg, err
		}
	}
	if h.Has("dtype") {
		if cfg.DType, err = h.String("dtype"); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// MLP is a multi-layer perceptron: depth hidden layers of the given width
// followed by a linear output layer. Hidden layers use ReLU, or tanh when
// UseTanh is set; the output layer has no activation.
//
// Example:
//
//	model, err := nn.NewMLP(nn.MLPConfig{Size: 5, Width: 10, Depth: 3, UseTanh: true})
//	model.Init(42)
//	y, err := model.Forward([]float32{1, 2, 3, 4, 5})
type MLP struct {
	config MLPConfig
	linear []*Linear
	seq    *Sequential
}

// NewMLP builds a zero-initialized MLP. It is a pure function of cfg, which
// makes it usable as a skeleton constructor when loading model files.
func NewMLP(cfg MLPConfig) (*MLP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dtype, _ := parseFloatDType(cfg.DType)

	activation := ReLU
	if cfg.UseTanh {
		activation = Tanh
	}

	sizes := make([]int, 0, cfg.Depth+2)
	sizes = append(sizes, cfg.Size)
	for range cfg.Depth {
		sizes = append(sizes, cfg.Width)
	}
	sizes = append(sizes, cfg.outSize())

	m := &MLP{config: cfg, seq: NewSequential()}
	for i := 0; i+1 < len(sizes); i++ {
		l, err := NewLinear(sizes[i], sizes[i+1], true, dtype)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		m.linear = append(m.linear, l)
		m.seq.Add(l)
		if i+2 < len(sizes) {
			m.seq.Add(NewActivation(activation))
		}
	}
	return m, nil
}

// Init fills every layer deterministically from seed.
func (m *MLP) Init(seed uint64) {
	rng := NewRand(seed)
	for _, l := range m.linear {
		l.Init(rng)
	}
}

// Forward evaluates the network on one input vector.
func (m *MLP) Forward(input []float32) ([]float32, error) {
	return m.seq.Forward(input)
}

// Parameters returns "layers.<i>.weight" and "layers.<i>.bias" for each
// linear layer in order.
func (m *MLP) Parameters() []*Parameter {
	var params []*Parameter
	for i, l := range m.linear {
		params = append(params, Prefixed(fmt.Sprintf("layers.%d", i), l.Parameters())...)
	}
	return params
}

// Config returns the configuration the MLP was built from.
func (m *MLP) Config() MLPConfig {
	return m.config
}

// Layers returns the linear layers, input side first.
func (m *MLP) Layers() []*Linear {
	return m.linear
}
