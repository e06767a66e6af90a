package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/born-ml/hparamfile/internal/registry"
	"github.com/born-ml/hparamfile/internal/serialization"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

func runInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	var (
		get      = fs.String("get", "", "Print only this header value (gjson path, e.g. 'depth').")
		checksum = fs.Bool("checksum", false, "The file carries a SHA-256 trailer.")
		noLeaves = fs.Bool("no_leaves", false, "Skip the per-leaf table.")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected exactly one model file")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return errors.WithStack(err)
	}

	opts := serialization.DefaultOptions()
	opts.Checksum = *checksum
	header, err := serialization.ReadHeader(f, opts)
	if err != nil {
		return errors.Wrapf(err, "reading header of %s", path)
	}

	if *get != "" {
		value := gjson.GetBytes(header.Line, *get)
		if !value.Exists() {
			return errors.Errorf("%s: no header value at %q", path, *get)
		}
		_, err := fmt.Fprintln(out, value.String())
		return err
	}

	fmt.Fprintln(out, titleStyle.Render("Hyperparameters"))
	table := newPlainTable(true)
	table.Row("Name", "Type", "Value")
	gjson.ParseBytes(header.Line).ForEach(func(key, value gjson.Result) bool {
		table.Row(key.String(), jsonTypeName(value), value.String())
		return true
	})
	fmt.Fprintln(out, table.Render())

	weightBytes := info.Size() - header.Size()
	summary := newPlainTable(false)
	summary.Row("file", path)
	summary.Row("file size", humanize.Bytes(uint64(info.Size())))
	summary.Row("header", humanize.Comma(header.Size())+" bytes")
	summary.Row("weights", humanize.Comma(weightBytes)+" bytes")

	skeleton, buildErr := registry.Build(header.Hyperparameters)
	if buildErr != nil {
		summary.Row("model", "not rebuildable: "+buildErr.Error())
		fmt.Fprintln(out, titleStyle.Render("Summary"))
		fmt.Fprintln(out, summary.Render())
		return nil
	}
	layout, err := serialization.LeafLayout(skeleton)
	if err != nil {
		return errors.WithStack(err)
	}
	name, _ := registry.ModelName(header.Hyperparameters)
	expected := layout.Size + trailerSize(opts)
	summary.Row("model", name)
	summary.Row("leaves", humanize.Comma(int64(len(layout.Leaves))))
	summary.Row("expected", humanize.Comma(expected)+" bytes")
	summary.Row("status", sizeStatus(weightBytes, expected))
	fmt.Fprintln(out, titleStyle.Render("Summary"))
	fmt.Fprintln(out, summary.Render())

	if !*noLeaves {
		fmt.Fprintln(out, titleStyle.Render("Leaves"))
		leaves := newPlainTable(true)
		leaves.Row("Name", "DType", "Shape", "Offset", "Bytes")
		for _, leaf := range layout.Leaves {
			leaves.Row(leaf.Name, leaf.DType, fmt.Sprint(leaf.Shape),
				humanize.Comma(leaf.Offset), humanize.Bytes(uint64(leaf.Size)))
		}
		fmt.Fprintln(out, leaves.Render())
	}
	return nil
}

func trailerSize(opts serialization.Options) int64 {
	if opts.Checksum {
		return serialization.ChecksumSize
	}
	return 0
}

func sizeStatus(have, want int64) string {
	switch {
	case have < want:
		return fmt.Sprintf("truncated (%s bytes missing)", humanize.Comma(want-have))
	case have > want:
		return fmt.Sprintf("mismatch (%s extra bytes)", humanize.Comma(have-want))
	}
	return "ok"
}

func jsonTypeName(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return "string"
	case gjson.True, gjson.False:
		return "bool"
	case gjson.Number:
		if v.Num == float64(int64(v.Num)) && !strings.ContainsAny(v.Raw, ".eE") {
			return "int"
		}
		return "float"
	default:
		return v.Type.String()
	}
}
