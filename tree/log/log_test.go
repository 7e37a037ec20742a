package log

import (
	"testing"

	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/transparency"
)

func assert(ok bool) {
	if !ok {
		panic("Assertion failed.")
	}
}

func mkLeaf(logID, recordID string) transparency.LogLeaf {
	return transparency.LogLeaf{
		LogID:    hash.Sum(hash.AlgorithmSHA256, []byte(logID)),
		RecordID: hash.Sum(hash.AlgorithmSHA256, []byte(recordID)),
	}
}

func TestEmptyLog(t *testing.T) {
	// E1 — Empty log.
	tr := New(hash.AlgorithmSHA256)
	root := tr.Checkpoint()
	assert(tr.Length() == 0)
	assert(root.Equal(hashEmpty(hash.AlgorithmSHA256)))
}

func TestSingleLeaf(t *testing.T) {
	// E2 — Single leaf.
	tr := New(hash.AlgorithmSHA256)
	leaf := mkLeaf("pkg:a", "r1")
	summary := tr.Push(leaf)

	assert(summary.LogLength == 1)
	assert(summary.LogRoot.Equal(hashLeaf(hash.AlgorithmSHA256, leaf)))

	proof, err := tr.InclusionProof(summary.LogRoot, 0)
	if err != nil {
		t.Fatalf("InclusionProof: %v", err)
	}
	assert(len(proof) == 0)

	got, err := EvaluateInclusion(hash.AlgorithmSHA256, leaf, 0, 1, proof)
	if err != nil {
		t.Fatalf("EvaluateInclusion: %v", err)
	}
	assert(got.Equal(summary.LogRoot))
}

func TestDeterminism(t *testing.T) {
	// Invariant 1 — log determinism.
	leaves := make([]transparency.LogLeaf, 0, 9)
	for i := 0; i < 9; i++ {
		leaves = append(leaves, mkLeaf("pkg", string(rune('a'+i))))
	}

	run := func() hash.Digest {
		tr := New(hash.AlgorithmSHA256)
		for _, l := range leaves {
			tr.Push(l)
		}
		return tr.Checkpoint()
	}

	first := run()
	second := run()
	assert(first.Equal(second))
}

func TestInclusionAllLeaves(t *testing.T) {
	tr := New(hash.AlgorithmSHA256)
	leaves := make([]transparency.LogLeaf, 0, 13)
	for i := 0; i < 13; i++ {
		leaves = append(leaves, mkLeaf("pkg", string(rune('a'+i))))
	}

	var root hash.Digest
	for _, l := range leaves {
		root = tr.Push(l).LogRoot
	}

	for i, l := range leaves {
		proof, err := tr.InclusionProof(root, uint64(i))
		if err != nil {
			t.Fatalf("InclusionProof(%d): %v", i, err)
		}
		got, err := EvaluateInclusion(hash.AlgorithmSHA256, l, uint64(i), uint64(len(leaves)), proof)
		if err != nil {
			t.Fatalf("EvaluateInclusion(%d): %v", i, err)
		}
		if !got.Equal(root) {
			t.Fatalf("leaf %d: inclusion proof evaluated to the wrong root", i)
		}
	}
}

func TestConsistency(t *testing.T) {
	// E5 — consistency between two checkpoints.
	tr := New(hash.AlgorithmSHA256)
	var c1, c2 hash.Digest
	for i := 0; i < 19; i++ {
		summary := tr.Push(mkLeaf("pkg", string(rune('a'+i))))
		if i == 6 {
			c1 = summary.LogRoot
		}
		if i == 18 {
			c2 = summary.LogRoot
		}
	}

	proof, err := tr.ConsistencyProof(c1, c2)
	if err != nil {
		t.Fatalf("ConsistencyProof: %v", err)
	}
	got, err := EvaluateConsistency(hash.AlgorithmSHA256, c1, 7, 19, proof)
	if err != nil {
		t.Fatalf("EvaluateConsistency: %v", err)
	}
	if !got.Equal(c2) {
		t.Fatalf("consistency proof evaluated to the wrong root")
	}

	if _, err := tr.ConsistencyProof(c2, c1); err == nil {
		t.Fatalf("expected reversed consistency proof to fail")
	}
}

func TestUnknownRoot(t *testing.T) {
	tr := New(hash.AlgorithmSHA256)
	tr.Push(mkLeaf("pkg", "a"))

	bogus := hash.Sum(hash.AlgorithmSHA256, []byte("not a real root"))
	if _, err := tr.InclusionProof(bogus, 0); err == nil {
		t.Fatalf("expected unknown root error")
	}
}
