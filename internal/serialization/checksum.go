package serialization

import (
	"encoding/hex"
)

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [ChecksumSize]byte) error {
	if computed != stored {
		return &FormatError{
			Kind:    ErrChecksumMismatch,
			Details: "stored " + shortHex(stored) + ", computed " + shortHex(computed),
		}
	}
	return nil
}

// shortHex renders the first 8 bytes of sum.
func shortHex(sum [ChecksumSize]byte) string {
	return hex.EncodeToString(sum[:8])
}
