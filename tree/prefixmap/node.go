package prefixmap

import "github.com/pkgledger/regtransparency/hash"

// leafData is the payload of a leaf node: a single (key, value) pair and
// the key's full digest, needed to find the bit at which two keys first
// diverge when a second key lands in the same leaf position.
type leafData struct {
	key   hash.Digest
	value hash.Digest
}

// forkData is the payload of a fork node: up to two children, either of
// which may be nil to mean "empty subtree".
type forkData struct {
	left  *node
	right *node
}

// node is either a leaf or a fork, never both. Its digest is computed once
// at construction and never changes, which is what makes structural
// sharing safe: an unchanged subtree can be referenced by any number of
// trees without re-hashing.
type node struct {
	leaf   *leafData
	fork   *forkData
	digest hash.Digest
}

func newLeaf(alg hash.Algorithm, key, value hash.Digest) *node {
	return &node{
		leaf:   &leafData{key: key, value: value},
		digest: hashLeaf(alg, key, value),
	}
}

func newFork(alg hash.Algorithm, left, right *node) *node {
	f := &forkData{left: left, right: right}
	var d hash.Digest
	switch {
	case left == nil && right == nil:
		d = hashForkEmpty(alg)
	case left == nil:
		d = hashForkRight(alg, right.digest)
	case right == nil:
		d = hashForkLeft(alg, left.digest)
	default:
		d = hashForkBoth(alg, left.digest, right.digest)
	}
	return &node{fork: f, digest: d}
}

// digestOf returns n's digest, or the empty-subtree digest if n is nil.
func digestOf(alg hash.Algorithm, n *node) hash.Digest {
	if n == nil {
		return hashForkEmpty(alg)
	}
	return n.digest
}

// child returns the node's child in direction b (0 = left, 1 = right). Only
// valid on fork nodes.
func (f *forkData) child(b int) *node {
	if b == 0 {
		return f.left
	}
	return f.right
}

// withChild returns a copy of f with the child in direction b replaced.
func (f *forkData) withChild(alg hash.Algorithm, b int, c *node) *node {
	if b == 0 {
		return newFork(alg, c, f.right)
	}
	return newFork(alg, f.left, c)
}
