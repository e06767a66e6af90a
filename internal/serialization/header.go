package serialization

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/hparamfile/internal/hparams"
)

// Header is the decoded first line of a model file.
type Header struct {
	Line            []byte                  // JSON text without the terminator
	Hyperparameters hparams.Hyperparameters // Normalized view of Line
}

// Size returns the number of bytes the header occupies, terminator included.
func (h Header) Size() int64 {
	return int64(len(h.Line)) + 1
}

// encodeHeader renders hp as one JSON line terminated by HeaderTerminator.
//
// hp may be hparams.Hyperparameters, a map, or a struct with json tags; it
// must encode to a flat object of scalars. encoding/json escapes control
// characters inside strings, but the single-line property is checked on
// the final bytes regardless of how hp encodes itself.
func encodeHeader(hp any) ([]byte, error) {
	if h, ok := hp.(hparams.Hyperparameters); ok {
		if err := h.Validate(); err != nil {
			return nil, &FormatError{Kind: ErrUnencodableHyperparameters, Err: err}
		}
	}

	data, err := json.Marshal(hp)
	if err != nil {
		return nil, &FormatError{Kind: ErrUnencodableHyperparameters, Err: err}
	}
	if i := bytes.IndexByte(data, HeaderTerminator); i >= 0 {
		return nil, formatErrorf(ErrUnencodableHyperparameters, nil, "encoded header contains a newline at byte %d", i)
	}
	if _, err := hparams.Parse(data); err != nil {
		return nil, &FormatError{Kind: ErrUnencodableHyperparameters, Err: err}
	}

	return append(data, HeaderTerminator), nil
}

// readHeaderLine consumes bytes up to and including the first newline and
// returns them without the newline.
func readHeaderLine(r *bufio.Reader, maxSize int) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice(HeaderTerminator)
		if len(line)+len(chunk) > maxSize {
			return nil, formatErrorf(ErrMalformedHeader, nil, "header exceeds %d bytes", maxSize)
		}
		line = append(line, chunk...)

		switch {
		case err == nil:
			return line[:len(line)-1], nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return nil, formatErrorf(ErrMalformedHeader, io.ErrUnexpectedEOF, "empty file")
			}
			return nil, formatErrorf(ErrMalformedHeader, io.ErrUnexpectedEOF, "no newline after %d header bytes", len(line))
		default:
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}
}

// decodeHeader parses a header line into H. hparams.Hyperparameters is
// filled directly; any other H is decoded with encoding/json after the
// line has been checked to be a flat object of scalars.
func decodeHeader[H any](line []byte, opts Options) (H, hparams.Hyperparameters, error) {
	var hp H

	parsed, err := hparams.Parse(line)
	if err != nil {
		return hp, nil, &FormatError{Kind: ErrMalformedHeader, Err: err}
	}
	if p, ok := any(&hp).(*hparams.Hyperparameters); ok {
		*p = parsed
		return hp, parsed, nil
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	if opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&hp); err != nil {
		return hp, nil, formatErrorf(ErrMalformedHeader, err, "cannot decode into %T", hp)
	}
	return hp, parsed, nil
}

// ReadHeader reads and decodes only the header line of a model file.
// The reader is left positioned somewhere after the header; callers that
// need the weights should use Load instead.
func ReadHeader(r io.Reader, opts Options) (Header, error) {
	line, err := readHeaderLine(bufio.NewReader(r), opts.maxHeaderSize())
	if err != nil {
		return Header{}, err
	}
	_, parsed, err := decodeHeader[hparams.Hyperparameters](line, opts)
	if err != nil {
		return Header{}, err
	}
	return Header{Line: line, Hyperparameters: parsed}, nil
}
