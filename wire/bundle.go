// Package wire implements the length-delimited codec proof bundles travel
// over: LogConsistencyBundle, LogInclusionBundle, and MapInclusionBundle all
// share one framing, so one Bundle type and one codec serve all three.
package wire

import "github.com/pkgledger/regtransparency/hash"

// Bundle is an ordered list of proofs, each proof an ordered list of
// sibling digests. A log proof's digests are always present; a map proof's
// digests may be the zero Digest, meaning "empty subtree" at that depth.
type Bundle struct {
	Entries [][]hash.Digest
}

// LogConsistencyBundle carries exactly one entry: the consistency proof
// between two log roots.
type LogConsistencyBundle = Bundle

// LogInclusionBundle carries one entry per requested leaf: that leaf's
// inclusion proof against a log root.
type LogInclusionBundle = Bundle

// MapInclusionBundle carries one entry per requested leaf: that leaf's
// inclusion proof against a map root, with None siblings as zero digests.
type MapInclusionBundle = Bundle
