package serialization

import (
	"bufio"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/born-ml/hparamfile/internal/nn"
	"k8s.io/klog/v2"
)

// Load reads a model file from r with DefaultOptions.
//
// It reads the header line, decodes it into H, calls build to obtain a
// skeleton, then overwrites the skeleton's leaves with the weight bytes.
// The returned model is the skeleton itself.
//
// Errors wrap ErrMalformedHeader, ErrTruncatedStream or ErrShapeMismatch for
// bad input. An error from build is returned wrapped, unchanged otherwise.
func Load[H any, M nn.Module](r io.Reader, build func(H) (M, error)) (H, M, error) {
	return LoadWithOptions(r, build, DefaultOptions())
}

// LoadWithOptions is Load with explicit options.
//
// The whole of r is consumed: bytes left after the last leaf (and the
// checksum, when enabled) are reported as ErrShapeMismatch.
func LoadWithOptions[H any, M nn.Module](r io.Reader, build func(H) (M, error), opts Options) (H, M, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return load(br, build, opts, -1)
}

// LoadFile opens path, loads the model and closes the file.
//
// Because the file size is known, the weight section length is compared
// against the skeleton's layout before any weight is read: a short file
// fails with ErrTruncatedStream and a long one with ErrShapeMismatch.
// The layout comes from the skeleton, so build still runs (and allocates)
// before this check; constructors are expected to reject oversized
// hyperparameters themselves, as nn.NewMLP does.
func LoadFile[H any, M nn.Module](path string, build func(H) (M, error), opts Options) (H, M, error) {
	var hp H
	var model M

	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return hp, model, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only; nothing to flush
	}()

	info, err := file.Stat()
	if err != nil {
		return hp, model, fmt.Errorf("failed to stat file: %w", err)
	}
	return load(bufio.NewReader(file), build, opts, info.Size())
}

// load implements the read procedure. total is the full stream length when
// known up front, or -1.
func load[H any, M nn.Module](br *bufio.Reader, build func(H) (M, error), opts Options, total int64) (H, M, error) {
	var zeroH H
	var zeroM M

	if build == nil {
		return zeroH, zeroM, fmt.Errorf("nil constructor")
	}

	// Step 1: the header line.
	line, err := readHeaderLine(br, opts.maxHeaderSize())
	if err != nil {
		return zeroH, zeroM, err
	}

	// Step 2: hyperparameters.
	hp, _, err := decodeHeader[H](line, opts)
	if err != nil {
		return zeroH, zeroM, err
	}

	// Step 3: skeleton.
	skeleton, err := build(hp)
	if err != nil {
		return zeroH, zeroM, fmt.Errorf("failed to build skeleton: %w", err)
	}
	layout, err := LeafLayout(skeleton)
	if err != nil {
		return zeroH, zeroM, err
	}

	headerSize := int64(len(line)) + 1
	if total >= 0 {
		if err := checkStreamSize(total-headerSize, layout.Size+opts.trailerSize()); err != nil {
			return zeroH, zeroM, err
		}
	}

	// Step 4: weights.
	var src io.Reader = br
	var hasher hash.Hash
	if opts.Checksum {
		hasher = sha256.New()
		hasher.Write(line)
		hasher.Write([]byte{HeaderTerminator})
		src = io.TeeReader(br, hasher)
	}
	if _, err := ReadLeaves(src, skeleton); err != nil {
		return zeroH, zeroM, err
	}
	if hasher != nil {
		if err := verifyTrailer(br, hasher); err != nil {
			return zeroH, zeroM, err
		}
	}
	if err := expectEOF(br); err != nil {
		return zeroH, zeroM, err
	}

	klog.V(1).Infof("loaded model: header %d bytes, %d leaves, %d weight bytes",
		headerSize, len(layout.Leaves), layout.Size)
	return hp, skeleton, nil
}

// checkStreamSize compares the bytes following the header with what the
// skeleton expects.
func checkStreamSize(have, want int64) error {
	switch {
	case have < want:
		return formatErrorf(ErrTruncatedStream, nil, "file has %d bytes after the header, skeleton needs %d", have, want)
	case have > want:
		return formatErrorf(ErrShapeMismatch, nil, "file has %d bytes after the header, skeleton needs %d", have, want)
	}
	return nil
}

func verifyTrailer(r io.Reader, hasher hash.Hash) error {
	var stored [ChecksumSize]byte
	n, err := io.ReadFull(r, stored[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return formatErrorf(ErrTruncatedStream, nil, "checksum trailer has %d of %d bytes", n, ChecksumSize)
		}
		return fmt.Errorf("failed to read checksum: %w", err)
	}
	var computed [ChecksumSize]byte
	copy(computed[:], hasher.Sum(nil))
	return ValidateChecksum(computed, stored)
}
