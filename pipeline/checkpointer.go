package pipeline

import (
	"time"

	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/metrics"
	"github.com/pkgledger/regtransparency/tree/prefixmap"
	"github.com/pkgledger/regtransparency/transparency"
)

// checkpointerLoop owns the live MapTree. It folds every log summary into
// the map as it arrives and, on a fixed-period tick, emits at most one
// pendingCheckpoint covering everything folded since the previous tick. It
// is the chain's sole producer for pendingCh: once summaryCh closes (the
// writer has shut down), it flushes anything left over and closes pendingCh
// in turn, so the signer can drain it to completion rather than racing a
// select against cancel.
func checkpointerLoop(
	alg hash.Algorithm,
	mapTree *prefixmap.Tree,
	interval time.Duration,
	summaryCh <-chan transparency.LogSummary,
	pendingCh chan<- pendingCheckpoint,
) {
	defer close(pendingCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []transparency.LogLeaf
	var lastRoot hash.Digest
	var lastLength uint64

	flush := func() {
		if len(pending) == 0 {
			return
		}
		leaves := pending
		pending = nil
		metrics.CheckpointsEmittedTotal.Inc()
		pendingCh <- pendingCheckpoint{
			PendingCheckpoint: transparency.PendingCheckpoint{
				Leaves: leaves,
				Checkpoint: transparency.MapCheckpoint{
					LogRoot:   lastRoot,
					LogLength: lastLength,
					MapRoot:   mapTree.Root(),
				},
			},
			mapSnapshot: mapTree,
			flushedAt:   time.Now(),
		}
	}

	for {
		select {
		case summary, ok := <-summaryCh:
			if !ok {
				// The writer closes summaryCh once cancel has fired (push
				// requests still queued on pushCh are not processed);
				// draining here (rather than selecting
				// on cancel directly) guarantees every summary it already
				// sent gets folded in before the final flush.
				flush()
				return
			}
			value := hash.Sum(alg, transparency.MapLeaf{RecordID: summary.Leaf.RecordID}.Canonical())
			mapTree = mapTree.Insert(summary.Leaf.LogID, value)
			pending = append(pending, summary.Leaf)
			lastRoot = summary.LogRoot
			lastLength = summary.LogLength
		case <-ticker.C:
			metrics.TicksTotal.Inc()
			flush()
		}
	}
}
