// Package hash defines the tagged digest type shared by every tree, proof,
// and envelope in this repository. A Digest always carries the algorithm it
// was produced with, so a digest computed under one hash family can never be
// silently compared against one computed under another.
package hash

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/pkgledger/regtransparency/crypto/canon"
)

// Algorithm identifies a hash function. The repository is constructed with
// exactly one algorithm; this tag exists so that digests remain
// self-describing on the wire and across process restarts, not so that
// callers can mix algorithms at runtime.
type Algorithm uint8

const (
	// AlgorithmUnknown is the zero value, reserved for the empty/None digest
	// encoding used by absent map-proof siblings.
	AlgorithmUnknown Algorithm = 0
	// AlgorithmSHA256 selects SHA-256.
	AlgorithmSHA256 Algorithm = 1
)

// Size returns the output size in bytes of the given algorithm, or 0 if the
// algorithm is not supported.
func (a Algorithm) Size() int {
	switch a {
	case AlgorithmSHA256:
		return sha256.Size
	default:
		return 0
	}
}

// New returns a fresh hash.Hash for the algorithm. It panics if the
// algorithm is not supported; callers are expected to validate the
// algorithm once at construction time.
func (a Algorithm) New() hash.Hash {
	switch a {
	case AlgorithmSHA256:
		return sha256.New()
	default:
		panic(fmt.Sprintf("hash: unsupported algorithm %d", a))
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSHA256:
		return "sha256"
	case AlgorithmUnknown:
		return "none"
	default:
		return fmt.Sprintf("algorithm(%d)", a)
	}
}

// Digest is a fixed-width hash output tagged with the algorithm that
// produced it. The zero Digest (AlgorithmUnknown, no bytes) represents the
// "None" sibling in a map inclusion proof.
type Digest struct {
	Algorithm Algorithm
	Bytes     []byte
}

// Sum computes the digest of b under alg.
func Sum(alg Algorithm, b []byte) Digest {
	h := alg.New()
	h.Write(b)
	return Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

// IsZero reports whether d is the empty/None digest.
func (d Digest) IsZero() bool {
	return d.Algorithm == AlgorithmUnknown && len(d.Bytes) == 0
}

// Equal reports whether two digests have the same algorithm and bytes.
func (d Digest) Equal(other Digest) bool {
	if d.Algorithm != other.Algorithm || len(d.Bytes) != len(other.Bytes) {
		return false
	}
	for i := range d.Bytes {
		if d.Bytes[i] != other.Bytes[i] {
			return false
		}
	}
	return true
}

// ErrMismatchedAlgorithm is returned when two digests tagged with different
// algorithms are compared or combined in a context that requires agreement.
var ErrMismatchedAlgorithm = fmt.Errorf("hash: mismatched algorithm")

// CheckAlgorithm returns ErrMismatchedAlgorithm if d is not tagged with want.
func (d Digest) CheckAlgorithm(want Algorithm) error {
	if d.Algorithm != want {
		return ErrMismatchedAlgorithm
	}
	return nil
}

// Encode writes d as algorithm_tag ‖ leb128(len) ‖ bytes onto w.
func (d Digest) Encode(w *canon.Writer) {
	w.WriteByte(byte(d.Algorithm))
	w.WriteBytes(d.Bytes)
}

// DecodeDigest reads a tagged digest previously written by Encode.
func DecodeDigest(r *canon.Reader) (Digest, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return Digest{}, err
	}
	b, err := r.ReadBytes()
	if err != nil {
		return Digest{}, err
	}
	alg := Algorithm(tag)
	if alg == AlgorithmUnknown && len(b) == 0 {
		return Digest{}, nil
	}
	want := alg.Size()
	if want == 0 {
		return Digest{}, fmt.Errorf("hash: unsupported digest algorithm %s", alg)
	}
	if len(b) != want {
		return Digest{}, fmt.Errorf("hash: digest for %s has wrong length %d", alg, len(b))
	}
	return Digest{Algorithm: alg, Bytes: b}, nil
}
