package prefixmap

import "github.com/pkgledger/regtransparency/hash"

// Evaluate recomputes a map root from a proof, key, and value, with no
// access to any Tree. proof[i] is the sibling digest at bit depth i (the
// zero Digest meaning "empty subtree"), ordered root to leaf, exactly as
// returned by Tree.Prove.
func Evaluate(alg hash.Algorithm, proof []hash.Digest, key, value hash.Digest) hash.Digest {
	acc := hashLeaf(alg, key, value)
	for i := len(proof) - 1; i >= 0; i-- {
		sibling := proof[i]
		b := bit(key, i)
		if sibling.IsZero() {
			if b == 0 {
				acc = hashForkLeft(alg, acc)
			} else {
				acc = hashForkRight(alg, acc)
			}
			continue
		}
		if b == 0 {
			acc = hashForkBoth(alg, acc, sibling)
		} else {
			acc = hashForkBoth(alg, sibling, acc)
		}
	}
	return acc
}
