package serialization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/born-ml/hparamfile/internal/tensor"
	"k8s.io/klog/v2"
)

// Leaf bytes are little-endian on disk; tensors hold host order.
var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// LeafLayout computes the weight section m writes, and a skeleton built
// like m expects to read.
func LeafLayout(m nn.Module) (Layout, error) {
	params := m.Parameters()
	layout := Layout{Leaves: make([]LeafMeta, 0, len(params))}
	for i, p := range params {
		if p == nil || p.Tensor() == nil {
			return Layout{}, formatErrorf(ErrShapeMismatch, nil, "parameter %d has no tensor", i)
		}
		t := p.Tensor()
		size := int64(t.ByteSize())
		layout.Leaves = append(layout.Leaves, LeafMeta{
			Name:   p.Name(),
			DType:  t.DType().String(),
			Shape:  []int(t.Shape().Clone()),
			Offset: layout.Size,
			Size:   size,
		})
		layout.Size += size
	}
	return layout, nil
}

// WriteLeaves writes the raw bytes of every parameter of m, in traversal
// order and without separators. It returns the number of bytes written.
func WriteLeaves(w io.Writer, m nn.Module) (int64, error) {
	if _, err := LeafLayout(m); err != nil {
		return 0, err
	}

	var written int64
	for _, p := range m.Parameters() {
		n, err := w.Write(littleEndianBytes(p.Tensor()))
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("failed to write leaf %s: %w", p.Name(), err)
		}
		klog.V(2).Infof("wrote leaf %s %s%v (%d bytes)", p.Name(), p.Tensor().DType(), p.Tensor().Shape(), n)
	}
	return written, nil
}

// ReadLeaves fills the parameters of skeleton, in traversal order, with bytes
// read from r, replacing their current contents. It reads exactly the
// skeleton's layout size and returns the number of bytes consumed.
//
// A stream that ends early yields ErrTruncatedStream. Extra bytes after the
// last leaf are not consumed; see Load for the trailing-data check.
func ReadLeaves(r io.Reader, skeleton nn.Module) (int64, error) {
	if _, err := LeafLayout(skeleton); err != nil {
		return 0, err
	}

	var read int64
	for _, p := range skeleton.Parameters() {
		t := p.Tensor()
		n, err := io.ReadFull(r, t.Data())
		read += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return read, &FormatError{
					Kind:    ErrTruncatedStream,
					Leaf:    p.Name(),
					Details: fmt.Sprintf("got %d of %d bytes", n, t.ByteSize()),
				}
			}
			return read, fmt.Errorf("failed to read leaf %s: %w", p.Name(), err)
		}
		if !hostLittleEndian {
			swapInPlace(t.Data(), t.DType().Size())
		}
		klog.V(2).Infof("read leaf %s %s%v (%d bytes)", p.Name(), t.DType(), t.Shape(), n)
	}
	return read, nil
}

// expectEOF fails with ErrShapeMismatch if r has any bytes left.
func expectEOF(r io.Reader) error {
	extra, err := io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("failed to read past weights: %w", err)
	}
	if extra > 0 {
		return formatErrorf(ErrShapeMismatch, nil, "%d bytes remain after the last leaf", extra)
	}
	return nil
}

// littleEndianBytes returns the tensor bytes in on-disk order. On little-endian
// hosts this is the tensor's own buffer.
func littleEndianBytes(t *tensor.RawTensor) []byte {
	if hostLittleEndian {
		return t.Data()
	}
	data := append([]byte(nil), t.Data()...)
	swapInPlace(data, t.DType().Size())
	return data
}

// swapInPlace reverses the byte order of every elemSize-wide element.
func swapInPlace(data []byte, elemSize int) {
	if elemSize == 1 {
		return
	}
	for off := 0; off+elemSize <= len(data); off += elemSize {
		elem := data[off : off+elemSize]
		for i, j := 0, elemSize-1; i < j; i, j = i+1, j-1 {
			elem[i], elem[j] = elem[j], elem[i]
		}
	}
}
