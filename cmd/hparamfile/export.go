package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/born-ml/hparamfile/internal/serialization"
	"github.com/pkg/errors"
)

func runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var (
		checksum = fs.Bool("checksum", false, "The input file carries a SHA-256 trailer.")
		output   = fs.String("o", "", "Output path. Defaults to the input path with a .safetensors extension.")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one model file")
	}
	path := fs.Arg(0)
	if *output == "" {
		*output = strings.TrimSuffix(path, filepath.Ext(path)) + ".safetensors"
	}

	opts := serialization.DefaultOptions()
	opts.Checksum = *checksum
	h, model, err := loadRegistered(path, opts)
	if err != nil {
		return err
	}
	if err := serialization.SaveSafeTensorsFile(*output, model, h); err != nil {
		return errors.Wrapf(err, "exporting to %s", *output)
	}
	_, err = fmt.Fprintf(out, "exported %s -> %s\n", path, *output)
	return err
}
