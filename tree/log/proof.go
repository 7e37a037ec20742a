package log

import (
	"fmt"

	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/transparency"
)

// EvaluateInclusion recomputes the root implied by proof for the leaf at
// index in a tree of the given length. It performs no tree access and can
// be run by any verifier holding only the leaf, its index, the claimed
// length, and the proof.
func EvaluateInclusion(alg hash.Algorithm, leaf transparency.LogLeaf, index, length uint64, proof []hash.Digest) (hash.Digest, error) {
	if length == 0 || index >= length {
		return hash.Digest{}, fmt.Errorf("%w: leaf index %d out of range for length %d", transparency.ErrProofFailure, index, length)
	}
	ids := inclusionProof(index, length)
	if len(ids) != len(proof) {
		return hash.Digest{}, fmt.Errorf("%w: expected %d proof entries, got %d", transparency.ErrProofFailure, len(ids), len(proof))
	}

	x := 2 * index
	acc := hashLeaf(alg, leaf)
	for i, sib := range proof {
		if err := sib.CheckAlgorithm(alg); err != nil {
			return hash.Digest{}, err
		}
		if ids[i] > x {
			acc = hashBranch(alg, acc, sib)
		} else {
			acc = hashBranch(alg, sib, acc)
		}
		if x != root(length) {
			x = parent(x, length)
		}
	}
	return acc, nil
}

// EvaluateConsistency recomputes the new root implied by proof, treating
// oldRoot as already trusted and embedding it at the structural position
// the proof's construction (mirroring RFC 6962's PROOF algorithm) places
// it. The caller compares the returned digest against the claimed new root.
func EvaluateConsistency(alg hash.Algorithm, oldRoot hash.Digest, oldLength, newLength uint64, proof []hash.Digest) (hash.Digest, error) {
	if oldLength == 0 {
		return hash.Digest{}, fmt.Errorf("%w: old length is zero", transparency.ErrProofFailure)
	}
	if oldLength > newLength {
		return hash.Digest{}, fmt.Errorf("%w: old length exceeds new length", transparency.ErrProofFailure)
	}
	if oldLength == newLength {
		if len(proof) != 0 {
			return hash.Digest{}, fmt.Errorf("%w: unexpected proof entries for equal lengths", transparency.ErrProofFailure)
		}
		return oldRoot, nil
	}

	digest, rest, err := evalSubProof(alg, oldRoot, oldLength, newLength, true, proof)
	if err != nil {
		return hash.Digest{}, err
	}
	if len(rest) != 0 {
		return hash.Digest{}, fmt.Errorf("%w: unconsumed proof entries", transparency.ErrProofFailure)
	}
	return digest, nil
}

func evalSubProof(alg hash.Algorithm, oldRoot hash.Digest, m, n uint64, b bool, proof []hash.Digest) (hash.Digest, []hash.Digest, error) {
	if m == n {
		if b {
			return oldRoot, proof, nil
		}
		if len(proof) == 0 {
			return hash.Digest{}, nil, fmt.Errorf("%w: missing subtree digest", transparency.ErrProofFailure)
		}
		return proof[0], proof[1:], nil
	}

	k := uint64(1) << log2(n)
	if k == n {
		k = k / 2
	}

	if m <= k {
		left, rest, err := evalSubProof(alg, oldRoot, m, k, b, proof)
		if err != nil {
			return hash.Digest{}, nil, err
		}
		if len(rest) == 0 {
			return hash.Digest{}, nil, fmt.Errorf("%w: missing right subtree digest", transparency.ErrProofFailure)
		}
		right := rest[0]
		rest = rest[1:]
		return hashBranch(alg, left, right), rest, nil
	}

	if len(proof) == 0 {
		return hash.Digest{}, nil, fmt.Errorf("%w: missing left subtree digest", transparency.ErrProofFailure)
	}
	left := proof[0]
	rest := proof[1:]
	right, rest, err := evalSubProof(alg, oldRoot, m-k, n-k, false, rest)
	if err != nil {
		return hash.Digest{}, nil, err
	}
	return hashBranch(alg, left, right), rest, nil
}
