package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/born-ml/hparamfile/internal/registry"
	"github.com/born-ml/hparamfile/internal/serialization"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func runDemo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	var (
		size     = fs.Int("size", 5, "Input features.")
		width    = fs.Int("width", 10, "Hidden layer width.")
		depth    = fs.Int("depth", 3, "Number of hidden layers.")
		useTanh  = fs.Bool("use_tanh", true, "Use tanh instead of ReLU in hidden layers.")
		dtype    = fs.String("dtype", "", "Leaf dtype: float32 (default), float64 or float16.")
		seed     = fs.Uint64("seed", 42, "Seed for the weight initialization.")
		checksum = fs.Bool("checksum", false, "Append a SHA-256 trailer.")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one output path, e.g. 'hparamfile demo model.hpw'")
	}
	path := fs.Arg(0)

	h := hparams.Hyperparameters{
		registry.ModelKey: "mlp",
		"size":            *size,
		"width":           *width,
		"depth":           *depth,
		"use_tanh":        *useTanh,
	}
	if *dtype != "" {
		h["dtype"] = *dtype
	}

	cfg, err := nn.MLPConfigFrom(h)
	if err != nil {
		return errors.Wrap(err, "invalid MLP flags")
	}
	model, err := nn.NewMLP(cfg)
	if err != nil {
		return errors.WithStack(err)
	}
	model.Init(*seed)

	opts := serialization.DefaultOptions()
	opts.Checksum = *checksum
	if err := serialization.SaveFile(path, h, model, opts); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}

	layout, err := serialization.LeafLayout(model)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintf(out, "wrote %s: %s parameters in %d leaves (%s of weights)\n", path,
		humanize.Comma(int64(nn.NumElements(model))), len(layout.Leaves), humanize.Bytes(uint64(layout.Size)))
	return err
}
