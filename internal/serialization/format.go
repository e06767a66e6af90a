package serialization

import (
	"github.com/born-ml/hparamfile/internal/nn"
)

// Format constants.
const (
	HeaderTerminator     = '\n'    // Ends the JSON header line
	FileExtension        = ".hpw"  // Conventional file name extension
	DefaultMaxHeaderSize = 1 << 20 // 1MB, header line including the terminator
	ChecksumSize         = 32      // SHA-256 trailer size
)

// Options configures reading and writing.
type Options struct {
	// MaxHeaderSize bounds the header line, terminator included.
	// Zero selects DefaultMaxHeaderSize.
	MaxHeaderSize int

	// Checksum appends (on write) or verifies (on read) a SHA-256 trailer
	// covering the header line and the weights. Files written with Checksum
	// must be read with Checksum.
	Checksum bool

	// DisallowUnknownFields makes decoding the header into a struct fail
	// on keys the struct does not declare.
	DisallowUnknownFields bool
}

// DefaultOptions returns the options used by Save and Load.
func DefaultOptions() Options {
	return Options{MaxHeaderSize: DefaultMaxHeaderSize}
}

func (o Options) maxHeaderSize() int {
	if o.MaxHeaderSize <= 0 {
		return DefaultMaxHeaderSize
	}
	return o.MaxHeaderSize
}

func (o Options) trailerSize() int64 {
	if o.Checksum {
		return ChecksumSize
	}
	return 0
}

// Constructor builds a skeleton model from hyperparameters. It must be a
// pure function of hp: the same hp always yields the same leaf layout.
type Constructor[H any, M nn.Module] func(hp H) (M, error)

// LeafMeta describes one leaf of the weight section.
type LeafMeta struct {
	Name   string `json:"name"`   // Parameter name (e.g., "layers.0.weight")
	DType  string `json:"dtype"`  // Data type (e.g., "float32")
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset from the start of the weight section
	Size   int64  `json:"size"`   // Size in bytes
}

// Layout is the weight section a module reads or writes.
type Layout struct {
	Leaves []LeafMeta `json:"leaves"`
	Size   int64      `json:"size"` // Total weight bytes
}
