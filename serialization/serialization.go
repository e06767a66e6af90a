// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization saves and loads model files.
//
// A model file is one line of JSON holding the hyperparameters, a newline,
// then the raw bytes of every parameter in traversal order:
//
//	{"size":5,"width":10,"depth":3,"use_tanh":true}\n<weights>
//
// # Basic Usage
//
//	cfg := nn.MLPConfig{Size: 5, Width: 10, Depth: 3, UseTanh: true}
//	model, _ := nn.NewMLP(cfg)
//	model.Init(42)
//	if err := serialization.SaveFile("model.hpw", cfg, model, serialization.DefaultOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, loaded, err := serialization.LoadFile("model.hpw", nn.NewMLP, serialization.DefaultOptions())
//
// Loading decodes the header into the constructor's argument type, calls
// the constructor to get a zero-filled skeleton, and fills it in place.
package serialization

import (
	"io"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/born-ml/hparamfile/internal/serialization"
)

// Failure kinds, for use with errors.Is.
var (
	ErrMalformedHeader            = serialization.ErrMalformedHeader
	ErrShapeMismatch              = serialization.ErrShapeMismatch
	ErrTruncatedStream            = serialization.ErrTruncatedStream
	ErrUnencodableHyperparameters = serialization.ErrUnencodableHyperparameters
	ErrChecksumMismatch           = serialization.ErrChecksumMismatch
)

// FormatError carries the details of a failure kind.
type FormatError = serialization.FormatError

// Options configures reading and writing.
type Options = serialization.Options

// Header is the decoded first line of a model file.
type Header = serialization.Header

// Layout describes the weight section of a module.
type Layout = serialization.Layout

// LeafMeta describes one leaf of the weight section.
type LeafMeta = serialization.LeafMeta

// Format constants.
const (
	FileExtension        = serialization.FileExtension
	DefaultMaxHeaderSize = serialization.DefaultMaxHeaderSize
	ChecksumSize         = serialization.ChecksumSize
)

// DefaultOptions returns the options used by Save and Load.
func DefaultOptions() Options {
	return serialization.DefaultOptions()
}

// Save writes hp and the weights of model to w.
func Save(w io.Writer, hp any, model nn.Module) error {
	return serialization.Save(w, hp, model)
}

// SaveWithOptions writes hp and the weights of model to w.
func SaveWithOptions(w io.Writer, hp any, model nn.Module, opts Options) error {
	return serialization.SaveWithOptions(w, hp, model, opts)
}

// SaveFile saves the model to path.
func SaveFile(path string, hp any, model nn.Module, opts Options) error {
	return serialization.SaveFile(path, hp, model, opts)
}

// Load reads hyperparameters and weights from r, using build to create the skeleton.
func Load[H any, M nn.Module](r io.Reader, build func(H) (M, error)) (H, M, error) {
	return serialization.Load(r, build)
}

// LoadWithOptions is Load with explicit options.
func LoadWithOptions[H any, M nn.Module](r io.Reader, build func(H) (M, error), opts Options) (H, M, error) {
	return serialization.LoadWithOptions(r, build, opts)
}

// LoadFile loads the model stored at path.
func LoadFile[H any, M nn.Module](path string, build func(H) (M, error), opts Options) (H, M, error) {
	return serialization.LoadFile(path, build, opts)
}

// ReadHeader reads only the header line.
func ReadHeader(r io.Reader, opts Options) (Header, error) {
	return serialization.ReadHeader(r, opts)
}

// LeafLayout returns the weight section layout of m.
func LeafLayout(m nn.Module) (Layout, error) {
	return serialization.LeafLayout(m)
}

// WriteLeaves writes the raw bytes of every parameter of m.
func WriteLeaves(w io.Writer, m nn.Module) (int64, error) {
	return serialization.WriteLeaves(w, m)
}

// ReadLeaves fills the parameters of skeleton from r.
func ReadLeaves(r io.Reader, skeleton nn.Module) (int64, error) {
	return serialization.ReadLeaves(r, skeleton)
}

// WriteSafeTensors exports the parameters of m in SafeTensors format.
func WriteSafeTensors(w io.Writer, m nn.Module, hp hparams.Hyperparameters) error {
	return serialization.WriteSafeTensors(w, m, hp)
}
