package pipeline

import (
	"testing"
	"time"

	"github.com/pkgledger/regtransparency/crypto/suites"
	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/tree/log"
	"github.com/pkgledger/regtransparency/tree/prefixmap"
	"github.com/pkgledger/regtransparency/transparency"
)

func assert(ok bool) {
	if !ok {
		panic("Assertion failed.")
	}
}

// testSeed is an arbitrary fixed ed25519 seed, hex-encoded, used only so
// tests can deterministically construct a signing key.
const testSeed = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testKey(t *testing.T) (suites.CipherSuite, suites.SigningPrivateKey) {
	suite := suites.KTSha256Ed25519{}
	priv, err := suite.ParseSigningPrivateKey([]byte(testSeed))
	if err != nil {
		t.Fatalf("ParseSigningPrivateKey: %v", err)
	}
	return suite, priv
}

func mkLeaf(logID, recordID byte) transparency.LogLeaf {
	return transparency.LogLeaf{
		LogID:    hash.Sum(hash.AlgorithmSHA256, []byte{logID}),
		RecordID: hash.Sum(hash.AlgorithmSHA256, []byte{recordID}),
	}
}

// recordingIndexer captures every call Index receives, for assertions
// without requiring a full proofservice.Service in this package's tests.
type recordingIndexer struct {
	calls []indexCall
}

type indexCall struct {
	length      uint64
	logRoot     hash.Digest
	mapRoot     hash.Digest
	mapSnapshot *prefixmap.Tree
	logTree     *log.Tree
}

func (r *recordingIndexer) Index(logTree *log.Tree, length uint64, logRoot, mapRoot hash.Digest, mapSnapshot *prefixmap.Tree) {
	r.calls = append(r.calls, indexCall{length: length, logRoot: logRoot, mapRoot: mapRoot, mapSnapshot: mapSnapshot, logTree: logTree})
}

func TestPipelinePublishesMonotonicCheckpoints(t *testing.T) {
	// Invariant E4 — checkpoint monotonicity: each published checkpoint's
	// log_length strictly increases and its log_root is consistent with
	// the log as of that length. A push that lands within the same tick
	// window as an earlier one gets folded into the same checkpoint, so
	// this drives one push per tick rather than asserting a 1:1 push to
	// checkpoint ratio.
	suite, priv := testKey(t)
	indexer := &recordingIndexer{}

	p := New(hash.AlgorithmSHA256, Config{
		Suite:              suite,
		PrivateKey:         priv,
		CheckpointInterval: 10 * time.Millisecond,
		ChannelCapacity:    4,
		Indexer:            indexer,
	})
	defer p.Stop()

	const n = 5
	var lastLength uint64
	for i := 0; i < n; i++ {
		p.Push(mkLeaf(byte(i), byte(100+i)))

		select {
		case pub := <-p.Published:
			if pub.Checkpoint.Contents.LogLength <= lastLength {
				t.Fatalf("checkpoint length did not strictly increase: %d after %d", pub.Checkpoint.Contents.LogLength, lastLength)
			}
			lastLength = pub.Checkpoint.Contents.LogLength
			if len(pub.Leaves) == 0 {
				t.Fatalf("published checkpoint covers no leaves")
			}
			if err := pub.Checkpoint.Verify(priv.Public()); err != nil {
				t.Fatalf("checkpoint signature does not verify: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for checkpoint %d", i)
		}
	}
	assert(lastLength == n)
}

func TestPipelineIndexesBeforePublishing(t *testing.T) {
	suite, priv := testKey(t)
	indexer := &recordingIndexer{}

	p := New(hash.AlgorithmSHA256, Config{
		Suite:              suite,
		PrivateKey:         priv,
		CheckpointInterval: 10 * time.Millisecond,
		Indexer:            indexer,
	})
	defer p.Stop()

	p.Push(mkLeaf(1, 1))

	select {
	case pub := <-p.Published:
		assert(len(indexer.calls) >= 1)
		last := indexer.calls[len(indexer.calls)-1]
		assert(last.logRoot.Equal(pub.Checkpoint.Contents.LogRoot))
		assert(last.mapRoot.Equal(pub.Checkpoint.Contents.MapRoot))
		assert(last.mapSnapshot != nil)
		assert(last.logTree != nil)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for checkpoint")
	}
}

func TestPipelineBootstrapLeaf(t *testing.T) {
	suite, priv := testKey(t)
	bootstrap := mkLeaf(9, 9)

	p := New(hash.AlgorithmSHA256, Config{
		Suite:              suite,
		PrivateKey:         priv,
		CheckpointInterval: 10 * time.Millisecond,
		Bootstrap:          &bootstrap,
	})
	defer p.Stop()

	select {
	case pub := <-p.Published:
		assert(len(pub.Leaves) >= 1)
		assert(pub.Leaves[0].LogID.Equal(bootstrap.LogID))
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for checkpoint covering bootstrap leaf")
	}
}

func TestPipelineStopDrainsPending(t *testing.T) {
	suite, priv := testKey(t)
	p := New(hash.AlgorithmSHA256, Config{
		Suite:              suite,
		PrivateKey:         priv,
		CheckpointInterval: time.Hour, // never ticks on its own
	})
	p.Push(mkLeaf(1, 1))
	p.Push(mkLeaf(2, 2))
	p.Stop()

	select {
	case pub := <-p.Published:
		assert(len(pub.Leaves) == 2)
	default:
		t.Fatalf("expected Stop to flush a final pending checkpoint")
	}
}
