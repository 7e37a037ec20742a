// Package pipeline wires LogTree, MapTree, the Checkpointer, and the Signer
// into the single-writer, bounded-channel chain the transparency core runs
// as: leaves enter one at a time, the log advances and emits a summary, the
// checkpointer folds the summary into the map and ticks out a pending
// checkpoint, and the signer signs and publishes it once the indexer has
// recorded both trees' new roots.
package pipeline

import (
	"time"

	"github.com/pkgledger/regtransparency/crypto/suites"
	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/metrics"
	"github.com/pkgledger/regtransparency/tree/log"
	"github.com/pkgledger/regtransparency/tree/prefixmap"
	"github.com/pkgledger/regtransparency/transparency"
)

// Indexer is notified of every new (log_root, map_root) pair before the
// corresponding SignedCheckpoint is forwarded on Published, so that any
// reader observing the checkpoint can already obtain proofs against it.
// logTree is the pipeline's single log, shared and safe for concurrent
// reads; mapSnapshot is the immutable map root exactly as of this
// checkpoint.
type Indexer interface {
	Index(logTree *log.Tree, logLength uint64, logRoot, mapRoot hash.Digest, mapSnapshot *prefixmap.Tree)
}

// Config parameterizes a Pipeline. It carries the pipeline's part of the
// core's configuration surface; the hash algorithm is New's own argument and
// root retention is a proofservice.New parameter. Nothing here is read from
// a file, flag, or environment variable by this package.
type Config struct {
	Suite              suites.CipherSuite
	PrivateKey         suites.SigningPrivateKey
	CheckpointInterval time.Duration
	ChannelCapacity    int
	Indexer            Indexer

	// Bootstrap, if non-nil, is pushed through the ordinary leaf path
	// before the pipeline starts accepting external leaves, seeding the
	// map with one operator log leaf the way the original service does.
	Bootstrap *transparency.LogLeaf
}

// Published is a signed checkpoint together with the leaves it covers.
type Published struct {
	Leaves     []transparency.LogLeaf
	Checkpoint transparency.SignedCheckpoint
}

type pushRequest struct {
	leaf transparency.LogLeaf
	resp chan<- transparency.LogSummary
}

// pendingCheckpoint is the checkpointer's internal handoff to the signer:
// the public PendingCheckpoint plus the map snapshot pinned to it, which
// only this package's wiring needs.
type pendingCheckpoint struct {
	transparency.PendingCheckpoint
	mapSnapshot *prefixmap.Tree
	flushedAt   time.Time
}

// Pipeline runs the writer, checkpointer, and signer stages as independent
// goroutines connected by bounded channels. The zero value is not valid;
// use New.
type Pipeline struct {
	cfg Config

	pushCh    chan pushRequest
	summaryCh chan transparency.LogSummary
	pendingCh chan pendingCheckpoint
	Published chan Published

	cancel chan struct{}
	done   chan struct{}
}

// New constructs a Pipeline and starts its three stages. Call Stop to drain
// and shut it down.
func New(alg hash.Algorithm, cfg Config) *Pipeline {
	if cfg.ChannelCapacity <= 0 {
		cfg.ChannelCapacity = 4
	}
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = 5 * time.Second
	}

	p := &Pipeline{
		cfg:       cfg,
		pushCh:    make(chan pushRequest, cfg.ChannelCapacity),
		summaryCh: make(chan transparency.LogSummary, cfg.ChannelCapacity),
		pendingCh: make(chan pendingCheckpoint, cfg.ChannelCapacity),
		Published: make(chan Published, cfg.ChannelCapacity),
		cancel:    make(chan struct{}),
		done:      make(chan struct{}),
	}

	logTree := log.New(alg)
	mapTree := prefixmap.New(alg)

	writerDone := make(chan struct{})
	checkpointerDone := make(chan struct{})
	signerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		writerLoop(logTree, p.pushCh, p.summaryCh, p.cancel)
	}()
	go func() {
		defer close(checkpointerDone)
		checkpointerLoop(alg, mapTree, cfg.CheckpointInterval, p.summaryCh, p.pendingCh)
	}()
	go func() {
		defer close(signerDone)
		signerLoop(cfg, logTree, p.pendingCh, p.Published)
	}()

	go func() {
		<-writerDone
		<-checkpointerDone
		<-signerDone
		close(p.done)
	}()

	if cfg.Bootstrap != nil {
		p.Push(*cfg.Bootstrap)
	}

	return p
}

// Push submits a leaf to the pipeline and blocks until the log has
// accepted it, returning the log's state immediately after the append.
func (p *Pipeline) Push(leaf transparency.LogLeaf) transparency.LogSummary {
	resp := make(chan transparency.LogSummary, 1)
	p.pushCh <- pushRequest{leaf: leaf, resp: resp}
	return <-resp
}

// Stop signals every stage to finish its current message and exit, then
// blocks until all three have drained (the checkpointer flushes a final
// partial batch and the signer signs any final pending checkpoint).
func (p *Pipeline) Stop() {
	close(p.cancel)
	<-p.done
}

// writerLoop is the chain's sole producer for summaryCh: it closes summaryCh
// on its way out so the checkpointer can drain whatever is already buffered
// and then shut down in turn, instead of racing a select against cancel on
// every handoff.
func writerLoop(tree *log.Tree, pushCh <-chan pushRequest, summaryCh chan<- transparency.LogSummary, cancel <-chan struct{}) {
	defer close(summaryCh)
	for {
		select {
		case <-cancel:
			return
		case req := <-pushCh:
			summary := tree.Push(req.leaf)
			metrics.PushesTotal.Inc()
			select {
			case req.resp <- summary:
			default:
			}
			summaryCh <- summary
		}
	}
}
