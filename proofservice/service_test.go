package proofservice

import (
	"errors"
	"testing"

	"github.com/pkgledger/regtransparency/hash"
	treelog "github.com/pkgledger/regtransparency/tree/log"
	"github.com/pkgledger/regtransparency/tree/prefixmap"
	"github.com/pkgledger/regtransparency/transparency"
)

func assert(ok bool) {
	if !ok {
		panic("Assertion failed.")
	}
}

func mkLeaf(logID, recordID byte) transparency.LogLeaf {
	return transparency.LogLeaf{
		LogID:    hash.Sum(hash.AlgorithmSHA256, []byte{logID}),
		RecordID: hash.Sum(hash.AlgorithmSHA256, []byte{recordID}),
	}
}

func mapValueFor(leaf transparency.LogLeaf) hash.Digest {
	return hash.Sum(hash.AlgorithmSHA256, transparency.MapLeaf{RecordID: leaf.RecordID}.Canonical())
}

// buildHistory pushes n leaves through a real log.Tree and prefixmap.Tree,
// indexing every resulting checkpoint into svc, mirroring what the
// pipeline's Indexer callback does in production.
func buildHistory(svc *Service, n int) (*treelog.Tree, []transparency.LogLeaf) {
	lt := treelog.New(hash.AlgorithmSHA256)
	mt := prefixmap.New(hash.AlgorithmSHA256)
	leaves := make([]transparency.LogLeaf, n)

	svc.Index(lt, 0, lt.Checkpoint(), mt.Root(), mt)

	for i := 0; i < n; i++ {
		leaf := mkLeaf(byte(i), byte(100+i))
		leaves[i] = leaf
		summary := lt.Push(leaf)
		mt = mt.Insert(leaf.LogID, mapValueFor(leaf))
		svc.Index(lt, summary.LogLength, summary.LogRoot, mt.Root(), mt)
	}
	return lt, leaves
}

func TestProveInclusionSelfChecks(t *testing.T) {
	svc := New(hash.AlgorithmSHA256, 64)
	lt, leaves := buildHistory(svc, 4)

	logRoot := lt.Checkpoint()

	length, ok := svc.lengthForLogRoot(logRoot)
	assert(ok)
	assert(length == uint64(len(leaves)))

	// We need the real mapRoot for the final checkpoint; reconstruct it the
	// same way buildHistory did.
	mt := prefixmap.New(hash.AlgorithmSHA256)
	for _, leaf := range leaves {
		mt = mt.Insert(leaf.LogID, mapValueFor(leaf))
	}
	finalMapRoot := mt.Root()

	refs := make([]LeafRef, len(leaves))
	for i, leaf := range leaves {
		refs[i] = LeafRef{Leaf: leaf, Index: uint64(i)}
	}

	logBundle, mapBundle, err := svc.ProveInclusion(logRoot, finalMapRoot, refs)
	if err != nil {
		t.Fatalf("ProveInclusion: %v", err)
	}
	assert(len(logBundle.Entries) == len(leaves))
	assert(len(mapBundle.Entries) == len(leaves))

	for i, leaf := range leaves {
		got, err := treelog.EvaluateInclusion(hash.AlgorithmSHA256, leaf, uint64(i), length, logBundle.Entries[i])
		if err != nil {
			t.Fatalf("EvaluateInclusion leaf %d: %v", i, err)
		}
		assert(got.Equal(logRoot))

		gotMap := prefixmap.Evaluate(hash.AlgorithmSHA256, mapBundle.Entries[i], leaf.LogID, mapValueFor(leaf))
		assert(gotMap.Equal(finalMapRoot))
	}
}

func TestProveConsistency(t *testing.T) {
	svc := New(hash.AlgorithmSHA256, 64)
	lt := treelog.New(hash.AlgorithmSHA256)
	mt := prefixmap.New(hash.AlgorithmSHA256)
	svc.Index(lt, 0, lt.Checkpoint(), mt.Root(), mt)

	var roots []hash.Digest
	roots = append(roots, lt.Checkpoint())
	for i := 0; i < 6; i++ {
		leaf := mkLeaf(byte(i), byte(i))
		summary := lt.Push(leaf)
		mt = mt.Insert(leaf.LogID, mapValueFor(leaf))
		svc.Index(lt, summary.LogLength, summary.LogRoot, mt.Root(), mt)
		roots = append(roots, summary.LogRoot)
	}

	bundle, err := svc.ProveConsistency(roots[2], roots[5])
	if err != nil {
		t.Fatalf("ProveConsistency: %v", err)
	}
	assert(len(bundle.Entries) == 1)

	got, err := treelog.EvaluateConsistency(hash.AlgorithmSHA256, roots[2], 2, 5, bundle.Entries[0])
	if err != nil {
		t.Fatalf("EvaluateConsistency: %v", err)
	}
	assert(got.Equal(roots[5]))
}

func TestUnknownRootRejected(t *testing.T) {
	svc := New(hash.AlgorithmSHA256, 64)
	lt := treelog.New(hash.AlgorithmSHA256)
	mt := prefixmap.New(hash.AlgorithmSHA256)
	svc.Index(lt, 0, lt.Checkpoint(), mt.Root(), mt)

	bogus := hash.Sum(hash.AlgorithmSHA256, []byte("never published"))
	_, err := svc.ProveConsistency(bogus, lt.Checkpoint())
	if !errors.Is(err, transparency.ErrUnknownRoot) {
		t.Fatalf("expected ErrUnknownRoot, got %v", err)
	}
}

func TestRetentionEvictsOldestCheckpoint(t *testing.T) {
	svc := New(hash.AlgorithmSHA256, 2)
	lt := treelog.New(hash.AlgorithmSHA256)
	mt := prefixmap.New(hash.AlgorithmSHA256)

	firstRoot := lt.Checkpoint()
	svc.Index(lt, 0, firstRoot, mt.Root(), mt)

	for i := 0; i < 3; i++ {
		leaf := mkLeaf(byte(i), byte(i))
		summary := lt.Push(leaf)
		mt = mt.Insert(leaf.LogID, mapValueFor(leaf))
		svc.Index(lt, summary.LogLength, summary.LogRoot, mt.Root(), mt)
	}

	// Retention is 2, and we have indexed 4 checkpoints (length 0..3), so
	// the length-0 checkpoint (firstRoot) should have been evicted.
	_, err := svc.ProveConsistency(firstRoot, lt.Checkpoint())
	if !errors.Is(err, transparency.ErrUnknownRoot) {
		t.Fatalf("expected evicted root to be unknown, got %v", err)
	}
}
