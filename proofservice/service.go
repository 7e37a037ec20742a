// Package proofservice retains a bounded history of log and map roots and
// serves consistency and inclusion proof bundles against them, self-
// checking every generated proof before it leaves the service.
package proofservice

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/metrics"
	treelog "github.com/pkgledger/regtransparency/tree/log"
	"github.com/pkgledger/regtransparency/tree/prefixmap"
	"github.com/pkgledger/regtransparency/transparency"
	"github.com/pkgledger/regtransparency/wire"
)

// resultLabel turns a proof-serving error into the "result" label value
// ProofRequestsTotal is keyed by.
func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// LeafRef names a specific occurrence of a leaf in the log by its index,
// disambiguating repeated log_ids (a package log accrues one leaf per
// published record, so the same log_id recurs across many leaves).
type LeafRef struct {
	Leaf  transparency.LogLeaf
	Index uint64
}

type entry struct {
	logRoot     hash.Digest
	mapRoot     hash.Digest
	mapSnapshot *prefixmap.Tree
}

// Service is the ProofService component. The zero value is not valid; use
// New. It is safe for concurrent use: indexing takes a brief write lock,
// lookups a read lock, matching the ownership policy in the component
// design.
type Service struct {
	alg hash.Algorithm

	mu        sync.RWMutex
	logTree   *treelog.Tree
	cache     *lru.Cache[uint64, *entry]
	byLogRoot map[string]uint64
	byMapRoot map[string]uint64
}

// New returns a ProofService retaining at least `retention` historical
// checkpoints (default 64).
func New(alg hash.Algorithm, retention int) *Service {
	if retention <= 0 {
		retention = 64
	}
	s := &Service{
		alg:       alg,
		byLogRoot: make(map[string]uint64),
		byMapRoot: make(map[string]uint64),
	}
	cache, err := lru.NewWithEvict[uint64, *entry](retention, s.onEvict)
	if err != nil {
		// retention is always positive here; NewWithEvict only fails for a
		// non-positive size.
		panic(err)
	}
	s.cache = cache
	return s
}

func rootKey(d hash.Digest) string {
	return string(append([]byte{byte(d.Algorithm)}, d.Bytes...))
}

func (s *Service) onEvict(_ uint64, e *entry) {
	delete(s.byLogRoot, rootKey(e.logRoot))
	delete(s.byMapRoot, rootKey(e.mapRoot))
}

// Index implements pipeline.Indexer's companion call: it records the new
// (log_root, map_root) pair, and the map snapshot to serve future proofs
// against map_root, evicting the oldest checkpoint once retention is
// exceeded.
func (s *Service) Index(logTree *treelog.Tree, length uint64, logRoot, mapRoot hash.Digest, mapSnapshot *prefixmap.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logTree == nil {
		s.logTree = logTree
	}
	s.cache.Add(length, &entry{logRoot: logRoot, mapRoot: mapRoot, mapSnapshot: mapSnapshot})
	s.byLogRoot[rootKey(logRoot)] = length
	s.byMapRoot[rootKey(mapRoot)] = length
}

func (s *Service) lengthForLogRoot(root hash.Digest) (uint64, bool) {
	n, ok := s.byLogRoot[rootKey(root)]
	return n, ok
}

func (s *Service) entryForMapRoot(root hash.Digest) (*entry, bool) {
	n, ok := s.byMapRoot[rootKey(root)]
	if !ok {
		return nil, false
	}
	e, ok := s.cache.Peek(n)
	return e, ok
}

// ProveConsistency returns the consistency bundle between two previously
// published log roots.
func (s *Service) ProveConsistency(oldRoot, newRoot hash.Digest) (wire.LogConsistencyBundle, error) {
	bundle, err := s.proveConsistency(oldRoot, newRoot)
	metrics.ProofRequestsTotal.WithLabelValues("consistency", resultLabel(err)).Inc()
	return bundle, err
}

func (s *Service) proveConsistency(oldRoot, newRoot hash.Digest) (wire.LogConsistencyBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	oldLength, ok := s.lengthForLogRoot(oldRoot)
	if !ok {
		return wire.Bundle{}, fmt.Errorf("%w: old root", transparency.ErrUnknownRoot)
	}
	newLength, ok := s.lengthForLogRoot(newRoot)
	if !ok {
		return wire.Bundle{}, fmt.Errorf("%w: new root", transparency.ErrUnknownRoot)
	}
	if s.logTree == nil {
		return wire.Bundle{}, fmt.Errorf("%w: no log indexed yet", transparency.ErrUnknownRoot)
	}

	digests, err := s.logTree.ConsistencyProof(oldRoot, newRoot)
	if err != nil {
		return wire.Bundle{}, err
	}
	got, err := treelog.EvaluateConsistency(s.alg, oldRoot, oldLength, newLength, digests)
	if err != nil {
		return wire.Bundle{}, fmt.Errorf("%w: %v", transparency.ErrIncorrectProof, err)
	}
	if !got.Equal(newRoot) {
		return wire.Bundle{}, transparency.ErrIncorrectProof
	}
	return wire.Bundle{Entries: [][]hash.Digest{digests}}, nil
}

// ProveInclusion proves, for every leaf in leaves, both its presence in the
// log at logRoot and that the map at mapRoot binds its log id to
// MapLeaf{record_id}. Every generated proof is self-checked against the
// requested roots before the bundles are returned.
func (s *Service) ProveInclusion(logRoot, mapRoot hash.Digest, leaves []LeafRef) (wire.LogInclusionBundle, wire.MapInclusionBundle, error) {
	logBundle, mapBundle, err := s.proveInclusion(logRoot, mapRoot, leaves)
	metrics.ProofRequestsTotal.WithLabelValues("inclusion", resultLabel(err)).Inc()
	return logBundle, mapBundle, err
}

func (s *Service) proveInclusion(logRoot, mapRoot hash.Digest, leaves []LeafRef) (wire.LogInclusionBundle, wire.MapInclusionBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logLength, ok := s.lengthForLogRoot(logRoot)
	if !ok {
		return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: log root", transparency.ErrUnknownRoot)
	}
	mapEntry, ok := s.entryForMapRoot(mapRoot)
	if !ok {
		return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: map root", transparency.ErrUnknownRoot)
	}
	if s.logTree == nil {
		return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: no log indexed yet", transparency.ErrUnknownRoot)
	}

	logEntries := make([][]hash.Digest, len(leaves))
	mapEntries := make([][]hash.Digest, len(leaves))

	for i, ref := range leaves {
		logProof, err := s.logTree.InclusionProof(logRoot, ref.Index)
		if err != nil {
			return wire.Bundle{}, wire.Bundle{}, err
		}
		gotLogRoot, err := treelog.EvaluateInclusion(s.alg, ref.Leaf, ref.Index, logLength, logProof)
		if err != nil {
			return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: %v", transparency.ErrIncorrectProof, err)
		}
		if !gotLogRoot.Equal(logRoot) {
			return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: log proof for leaf %d", transparency.ErrIncorrectProof, i)
		}
		logEntries[i] = logProof

		mapValue := hash.Sum(s.alg, transparency.MapLeaf{RecordID: ref.Leaf.RecordID}.Canonical())
		mapProof, found := mapEntry.mapSnapshot.Prove(ref.Leaf.LogID)
		if !found {
			return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: log id not bound in map at requested root", transparency.ErrProofFailure)
		}
		gotMapRoot := prefixmap.Evaluate(s.alg, mapProof, ref.Leaf.LogID, mapValue)
		if !gotMapRoot.Equal(mapRoot) {
			return wire.Bundle{}, wire.Bundle{}, fmt.Errorf("%w: map proof for leaf %d", transparency.ErrIncorrectProof, i)
		}
		mapEntries[i] = mapProof
	}

	return wire.Bundle{Entries: logEntries}, wire.Bundle{Entries: mapEntries}, nil
}
