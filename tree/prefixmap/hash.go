// Package prefixmap implements the persistent binary prefix tree keyed by
// the bits of a key's digest: a Patricia trie over hashed keys, where
// insertion returns a new root sharing every untouched subtree with its
// predecessor.
package prefixmap

import "github.com/pkgledger/regtransparency/hash"

// Domain-separation tags. tagLeaf is distinct from every fork tag so a leaf
// can never collide with a fork, and the four fork tags are distinguished
// by which children are present.
const (
	tagForkEmpty byte = 0x00 // both children absent
	tagForkRight byte = 0x01 // only right child
	tagForkLeft  byte = 0x02 // only left child
	tagForkBoth  byte = 0x03 // both children present
	tagLeaf      byte = 0x04
)

func hashForkEmpty(alg hash.Algorithm) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagForkEmpty})
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

func hashForkRight(alg hash.Algorithm, r hash.Digest) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagForkRight})
	h.Write(r.Bytes)
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

func hashForkLeft(alg hash.Algorithm, l hash.Digest) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagForkLeft})
	h.Write(l.Bytes)
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

func hashForkBoth(alg hash.Algorithm, l, r hash.Digest) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagForkBoth})
	h.Write(l.Bytes)
	h.Write(r.Bytes)
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

// hashLeaf hashes a leaf over its length-prefixed canonical key and value
// bytes, per the tagging rule on the constants above.
func hashLeaf(alg hash.Algorithm, key, value hash.Digest) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagLeaf})
	h.Write([]byte{byte(len(key.Bytes))})
	h.Write(key.Bytes)
	h.Write([]byte{byte(len(value.Bytes))})
	h.Write(value.Bytes)
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

// bit returns the value of the i-th bit (0 = most significant) of a key's
// digest bytes.
func bit(key hash.Digest, i int) int {
	byteIdx := i / 8
	bitIdx := 7 - (i % 8)
	if byteIdx >= len(key.Bytes) {
		return 0
	}
	return int((key.Bytes[byteIdx] >> uint(bitIdx)) & 1)
}
