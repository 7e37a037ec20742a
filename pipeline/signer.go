package pipeline

import (
	"log"
	"time"

	"github.com/pkgledger/regtransparency/metrics"
	treelog "github.com/pkgledger/regtransparency/tree/log"
	"github.com/pkgledger/regtransparency/transparency"
)

// signerLoop takes each pendingCheckpoint, signs it, has the indexer record
// the new roots and map snapshot, and forwards the signed checkpoint along
// with the leaves it covers. Indexing happens before publishing so that any
// reader who observes the checkpoint can already fetch proofs against it.
// It ranges over pendingCh until the checkpointer closes it, so every
// checkpoint the checkpointer ever sends is signed and published, even the
// final one flushed during shutdown.
func signerLoop(
	cfg Config,
	logTree *treelog.Tree,
	pendingCh <-chan pendingCheckpoint,
	published chan<- Published,
) {
	for pc := range pendingCh {
		envelope, err := transparency.SignedContents(cfg.Suite, cfg.PrivateKey, pc.Checkpoint)
		if err != nil {
			// Signing is writer-side; per the error handling design this is
			// fatal for the stage rather than something to retry silently.
			log.Fatalf("pipeline: signing checkpoint at length %d: %v", pc.Checkpoint.LogLength, err)
		}
		if cfg.Indexer != nil {
			cfg.Indexer.Index(logTree, pc.Checkpoint.LogLength, pc.Checkpoint.LogRoot, pc.Checkpoint.MapRoot, pc.mapSnapshot)
		}
		if !pc.flushedAt.IsZero() {
			metrics.CheckpointPublishLatency.Observe(time.Since(pc.flushedAt).Seconds())
		}
		published <- Published{Leaves: pc.Leaves, Checkpoint: envelope}
	}
}
