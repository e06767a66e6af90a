package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/born-ml/hparamfile/internal/registry"
	"github.com/born-ml/hparamfile/internal/serialization"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func runVerify(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var (
		checksum = fs.Bool("checksum", false, "Verify the SHA-256 trailer.")
		forward  = fs.String("forward", "", "Comma-separated input vector to run through the loaded model.")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one model file")
	}
	path := fs.Arg(0)

	opts := serialization.DefaultOptions()
	opts.Checksum = *checksum

	h, model, err := loadRegistered(path, opts)
	if err != nil {
		return err
	}
	name, _ := registry.ModelName(h)
	fmt.Fprintf(out, "%s: ok (%s, %s parameters in %d leaves)\n",
		path, name, humanize.Comma(int64(nn.NumElements(model))), len(model.Parameters()))

	if *forward == "" {
		return nil
	}
	layer, ok := model.(nn.Layer)
	if !ok {
		return errors.Errorf("model %s has no forward pass", name)
	}
	input, err := parseVector(*forward)
	if err != nil {
		return err
	}
	output, err := layer.Forward(input)
	if err != nil {
		return errors.Wrap(err, "forward pass")
	}
	_, err = fmt.Fprintf(out, "forward: %v\n", output)
	return err
}

// loadRegistered loads path using the model registry to build the skeleton.
func loadRegistered(path string, opts serialization.Options) (hparams.Hyperparameters, nn.Module, error) {
	h, model, err := serialization.LoadFile(path, registry.Build, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading %s", path)
	}
	return h, model, nil
}

func parseVector(s string) ([]float32, error) {
	fields := strings.Split(s, ",")
	values := make([]float32, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return nil, errors.Wrapf(err, "input element %d", i)
		}
		values[i] = float32(v)
	}
	return values, nil
}
