package serialization

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/born-ml/hparamfile/internal/nn"
	"k8s.io/klog/v2"
)

// Save writes hp and the weights of model to w with DefaultOptions.
//
// hp is typically hparams.Hyperparameters or a configuration struct with
// json tags; it must encode to a flat JSON object of scalars.
func Save(w io.Writer, hp any, model nn.Module) error {
	return SaveWithOptions(w, hp, model, DefaultOptions())
}

// SaveWithOptions writes hp and the weights of model to w.
//
// The header is encoded and the model's leaves are checked before anything
// is written, so an ErrUnencodableHyperparameters failure leaves w untouched.
// Output is deterministic: the same hp and weights always produce the same bytes.
func SaveWithOptions(w io.Writer, hp any, model nn.Module, opts Options) error {
	header, err := encodeHeader(hp)
	if err != nil {
		return err
	}
	if len(header) > opts.maxHeaderSize() {
		return formatErrorf(ErrUnencodableHyperparameters, nil, "header is %d bytes, limit %d", len(header), opts.maxHeaderSize())
	}
	layout, err := LeafLayout(model)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var sink io.Writer = bw
	var hasher hash.Hash
	if opts.Checksum {
		hasher = sha256.New()
		sink = io.MultiWriter(bw, hasher)
	}

	if _, err := sink.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := WriteLeaves(sink, model); err != nil {
		return err
	}
	if hasher != nil {
		if _, err := bw.Write(hasher.Sum(nil)); err != nil {
			return fmt.Errorf("failed to write checksum: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	klog.V(1).Infof("saved model: header %d bytes, %d leaves, %d weight bytes, checksum=%t",
		len(header), len(layout.Leaves), layout.Size, opts.Checksum)
	return nil
}

// SaveFile creates (or truncates) path and saves the model into it.
// The file is held open only for the duration of the call.
func SaveFile(path string, hp any, model nn.Module, opts Options) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	return SaveWithOptions(file, hp, model, opts)
}
