// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the module abstraction and the layers whose
// parameters are stored in model files.
//
// # Overview
//
// This package contains:
//   - Module: ordered, named parameters (the traversal order of a model file)
//   - Layers: Linear, activations, Sequential
//   - Models: MLP, configured by MLPConfig
//
// # Basic Usage
//
//	import "github.com/born-ml/hparamfile/nn"
//
//	func main() {
//	    model, err := nn.NewMLP(nn.MLPConfig{Size: 5, Width: 10, Depth: 3, UseTanh: true})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    model.Init(42) // Xavier weights, zero biases
//	    y, _ := model.Forward([]float32{1, 2, 3, 4, 5})
//	}
//
// NewMLP and NewLinear return zero-filled layers, which makes them suitable
// as skeleton constructors when loading.
package nn

import (
	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/born-ml/hparamfile/internal/tensor"
)

// Module is anything with an ordered list of parameters.
type Module = nn.Module

// Layer is a Module with a forward pass over a single vector.
type Layer = nn.Layer

// Parameter is a named tensor owned by a module.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return nn.NewParameter(name, t)
}

// ConfigError reports an invalid hyperparameter value.
type ConfigError = nn.ConfigError

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// LinearConfig holds the hyperparameters of a standalone Linear layer.
type LinearConfig = nn.LinearConfig

// NewLinear creates a zero-initialized linear layer.
func NewLinear(inFeatures, outFeatures int, useBias bool, dtype tensor.DataType) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures, useBias, dtype)
}

// NewLinearFromConfig creates a zero-initialized linear layer from cfg.
func NewLinearFromConfig(cfg LinearConfig) (*Linear, error) {
	return nn.NewLinearFromConfig(cfg)
}

// Activation names an element-wise function.
type Activation = nn.Activation

// Supported activations.
const (
	ReLU     = nn.ReLU
	Tanh     = nn.Tanh
	Identity = nn.Identity
)

// ActivationLayer applies an Activation element-wise.
type ActivationLayer = nn.ActivationLayer

// NewActivation creates a parameterless activation layer.
func NewActivation(fn Activation) *ActivationLayer {
	return nn.NewActivation(fn)
}

// Sequential chains layers.
type Sequential = nn.Sequential

// NewSequential creates a sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return nn.NewSequential(layers...)
}

// Models

// MLP is a multi-layer perceptron.
type MLP = nn.MLP

// MLPConfig holds the hyperparameters that fully determine an MLP.
type MLPConfig = nn.MLPConfig

// NewMLP builds a zero-initialized MLP.
func NewMLP(cfg MLPConfig) (*MLP, error) {
	return nn.NewMLP(cfg)
}

// MLPConfigFrom reads an MLPConfig from untyped hyperparameters.
func MLPConfigFrom(h hparams.Hyperparameters) (MLPConfig, error) {
	return nn.MLPConfigFrom(h)
}

// Utilities

// StateDict returns the parameters of m by name.
func StateDict(m Module) (map[string]*tensor.RawTensor, error) {
	return nn.StateDict(m)
}

// NumElements counts the scalar parameters of m.
func NumElements(m Module) int {
	return nn.NumElements(m)
}

// Equal reports whether a and b have the same leaves, bit for bit.
func Equal(a, b Module) bool {
	return nn.Equal(a, b)
}
