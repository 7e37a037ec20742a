package prefixmap

import "github.com/pkgledger/regtransparency/hash"

// Tree is an immutable snapshot of the prefix map. The zero value is not
// valid; use New. Insert never mutates the receiver: it returns a new Tree
// that shares every subtree unaffected by the insertion.
type Tree struct {
	alg  hash.Algorithm
	root *node
}

// New returns the empty map under the given hash algorithm.
func New(alg hash.Algorithm) *Tree {
	return &Tree{alg: alg}
}

// Root returns the digest of the current root node.
func (t *Tree) Root() hash.Digest {
	return digestOf(t.alg, t.root)
}

// Insert returns a new Tree with key bound to value, sharing every subtree
// of t that the insertion does not touch.
func (t *Tree) Insert(key, value hash.Digest) *Tree {
	return &Tree{alg: t.alg, root: insert(t.alg, t.root, 0, key, value)}
}

func insert(alg hash.Algorithm, n *node, depthBit int, key, value hash.Digest) *node {
	switch {
	case n == nil:
		return newLeaf(alg, key, value)
	case n.leaf != nil:
		if n.leaf.key.Equal(key) {
			return newLeaf(alg, key, value)
		}
		return insertLeafChain(alg, n.leaf, key, value, depthBit)
	default:
		b := bit(key, depthBit)
		child := insert(alg, n.fork.child(b), depthBit+1, key, value)
		return n.fork.withChild(alg, b, child)
	}
}

// insertLeafChain replaces a leaf occupied by a different key with a chain
// of single-child forks down to the bit at which the two keys first
// diverge, terminating in a fork holding both leaves.
func insertLeafChain(alg hash.Algorithm, old *leafData, key, value hash.Digest, depthBit int) *node {
	diff := depthBit
	for bit(old.key, diff) == bit(key, diff) {
		diff++
	}

	oldLeaf := newLeaf(alg, old.key, old.value)
	newLeafNode := newLeaf(alg, key, value)

	var current *node
	if bit(key, diff) == 0 {
		current = newFork(alg, newLeafNode, oldLeaf)
	} else {
		current = newFork(alg, oldLeaf, newLeafNode)
	}

	for d := diff - 1; d >= depthBit; d-- {
		if bit(key, d) == 0 {
			current = newFork(alg, current, nil)
		} else {
			current = newFork(alg, nil, current)
		}
	}
	return current
}

// Prove returns the ordered sibling digests along key's path, one per fork
// traversed, and whether key is present in the tree. A present sibling
// entry that is the zero Digest means that side of the fork is empty.
func (t *Tree) Prove(key hash.Digest) ([]hash.Digest, bool) {
	var proof []hash.Digest
	n := t.root
	depthBit := 0
	for {
		if n == nil {
			return nil, false
		}
		if n.leaf != nil {
			if !n.leaf.key.Equal(key) {
				return nil, false
			}
			return proof, true
		}
		b := bit(key, depthBit)
		sibling := n.fork.child(1 - b)
		proof = append(proof, digestOfSibling(t.alg, sibling))
		n = n.fork.child(b)
		depthBit++
	}
}

// digestOfSibling returns the empty Digest (not the empty-subtree hash) for
// an absent sibling, per the wire codec's None representation.
func digestOfSibling(alg hash.Algorithm, n *node) hash.Digest {
	if n == nil {
		return hash.Digest{}
	}
	return n.digest
}
