package log

import (
	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/transparency"
)

// Domain-separation tags for the three kinds of hash input the log ever
// produces. They must stay distinct so a leaf digest can never collide with
// a branch digest or the empty-tree digest.
const (
	tagLeaf   byte = 0x00
	tagBranch byte = 0x01
	tagEmpty  byte = 0x02
)

func hashLeaf(alg hash.Algorithm, leaf transparency.LogLeaf) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagLeaf})
	h.Write(leaf.Canonical())
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

func hashBranch(alg hash.Algorithm, left, right hash.Digest) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagBranch})
	h.Write(left.Bytes)
	h.Write(right.Bytes)
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}

func hashEmpty(alg hash.Algorithm) hash.Digest {
	h := alg.New()
	h.Write([]byte{tagEmpty})
	return hash.Digest{Algorithm: alg, Bytes: h.Sum(nil)}
}
