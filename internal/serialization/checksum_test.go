package serialization

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"
)

// TestChecksumTrailerCoversHeaderAndWeights checks the trailer is the SHA-256
// of everything that precedes it.
func TestChecksumTrailerCoversHeaderAndWeights(t *testing.T) {
	model := newTrainedMLP(t, exampleConfig, 7)

	var plain, sealed bytes.Buffer
	if err := Save(&plain, exampleConfig, model); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := SaveWithOptions(&sealed, exampleConfig, model, Options{Checksum: true}); err != nil {
		t.Fatalf("SaveWithOptions failed: %v", err)
	}

	if sealed.Len() != plain.Len()+ChecksumSize {
		t.Fatalf("Expected %d bytes, got %d", plain.Len()+ChecksumSize, sealed.Len())
	}
	body := sealed.Bytes()[:plain.Len()]
	if !bytes.Equal(body, plain.Bytes()) {
		t.Fatal("Checksum option must not change the bytes before the trailer")
	}

	want := sha256.Sum256(plain.Bytes())
	if !bytes.Equal(sealed.Bytes()[plain.Len():], want[:]) {
		t.Errorf("Trailer mismatch: got %x, want %x", sealed.Bytes()[plain.Len():], want)
	}
}

func TestValidateChecksum(t *testing.T) {
	sum := sha256.Sum256([]byte("weights"))
	if err := ValidateChecksum(sum, sum); err != nil {
		t.Errorf("Expected no error for matching checksums, got: %v", err)
	}

	other := sha256.Sum256([]byte("weightz"))
	err := ValidateChecksum(sum, other)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Expected ErrChecksumMismatch, got: %v", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FormatError, got %T", err)
	}
	if want := "stored " + shortHex(other) + ", computed " + shortHex(sum); fe.Details != want {
		t.Errorf("Details: got %q, want %q", fe.Details, want)
	}
	if got := shortHex(sha256.Sum256(nil)); got != "e3b0c44298fc1c14" {
		t.Errorf("shortHex of the empty SHA-256: got %q", got)
	}
}
