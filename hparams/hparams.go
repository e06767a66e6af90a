// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hparams exposes the hyperparameter mapping stored in the header
// line of a model file.
package hparams

import (
	"github.com/born-ml/hparamfile/internal/hparams"
)

// Hyperparameters maps names to scalar configuration values.
type Hyperparameters = hparams.Hyperparameters

// Lookup failures.
var (
	ErrNonScalar  = hparams.ErrNonScalar
	ErrNotObject  = hparams.ErrNotObject
	ErrMissingKey = hparams.ErrMissingKey
	ErrWrongType  = hparams.ErrWrongType
)

// Parse decodes a JSON object of scalars.
func Parse(data []byte) (Hyperparameters, error) {
	return hparams.Parse(data)
}

// FromValue converts a JSON-encodable configuration value into Hyperparameters.
func FromValue(v any) (Hyperparameters, error) {
	return hparams.FromValue(v)
}
