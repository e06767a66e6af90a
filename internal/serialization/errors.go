package serialization

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every error returned for a bad file wraps exactly one of them.
var (
	ErrMalformedHeader            = errors.New("malformed header")
	ErrShapeMismatch              = errors.New("skeleton does not match weight stream")
	ErrTruncatedStream            = errors.New("truncated weight stream")
	ErrUnencodableHyperparameters = errors.New("hyperparameters cannot be encoded")
	ErrChecksumMismatch           = errors.New("checksum mismatch: file may be corrupted")
)

// FormatError provides detailed information about a failure kind.
type FormatError struct {
	Kind    error  // One of the Err* kinds above
	Leaf    string // Parameter name involved, if any
	Details string // Additional details
	Err     error  // Underlying cause, if any
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Leaf != "" {
		fmt.Fprintf(&b, ": leaf %q", e.Leaf)
	}
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func formatErrorf(kind error, cause error, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Details: fmt.Sprintf(format, args...), Err: cause}
}
