// Package transparency defines the value types shared by every stage of the
// pipeline: the leaves the log accepts, the checkpoints the map produces,
// and the error taxonomy that distinguishes a fatal writer-side fault from
// an ordinary reader-side rejection.
package transparency

import (
	"github.com/pkgledger/regtransparency/crypto/canon"
	"github.com/pkgledger/regtransparency/hash"
)

// LogLeaf identifies one record appended to one package log.
type LogLeaf struct {
	LogID    hash.Digest
	RecordID hash.Digest
}

// Canonical returns the deterministic byte encoding of the leaf: its two
// digests, each tagged and length-prefixed, in declaration order.
func (l LogLeaf) Canonical() []byte {
	w := canon.NewWriter(2 * (2 + hash.AlgorithmSHA256.Size()))
	l.LogID.Encode(w)
	l.RecordID.Encode(w)
	return w.Bytes()
}

// MapLeaf is the value stored at log_id inside the map: the most recent
// record id known for that package log.
type MapLeaf struct {
	RecordID hash.Digest
}

// Canonical returns the deterministic byte encoding of the map leaf value.
func (l MapLeaf) Canonical() []byte {
	w := canon.NewWriter(2 + hash.AlgorithmSHA256.Size())
	l.RecordID.Encode(w)
	return w.Bytes()
}

// MapCheckpoint binds a log prefix to the map snapshot folding in exactly
// that prefix.
type MapCheckpoint struct {
	LogRoot   hash.Digest
	LogLength uint64
	MapRoot   hash.Digest
}

// checkpointDomainTag separates checkpoint signatures from any other
// contents type this pipeline might ever sign.
const checkpointDomainTag = "regtransparency-checkpoint-v1"

// DomainTag implements Contents.
func (c MapCheckpoint) DomainTag() string { return checkpointDomainTag }

// Canonical implements Contents: log_root, log_length (fixed 64-bit
// big-endian per the wire format), map_root, in declaration order.
func (c MapCheckpoint) Canonical() []byte {
	w := canon.NewWriter(2*(2+hash.AlgorithmSHA256.Size()) + 8)
	c.LogRoot.Encode(w)
	w.WriteRaw(beUint64(c.LogLength))
	c.MapRoot.Encode(w)
	return w.Bytes()
}

func beUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// PendingCheckpoint is the unit of work the Checkpointer hands to the
// Signer: the checkpoint itself, plus the log leaves it covers (so
// downstream proof indexing knows exactly which leaves just became provable
// against this checkpoint's roots).
type PendingCheckpoint struct {
	Leaves     []LogLeaf
	Checkpoint MapCheckpoint
}

// LogSummary is what LogTree emits after each push: the leaf just accepted,
// and the log's state immediately after accepting it.
type LogSummary struct {
	Leaf      LogLeaf
	LogRoot   hash.Digest
	LogLength uint64
}
