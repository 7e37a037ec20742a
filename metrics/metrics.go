// Package metrics holds the Prometheus collectors shared by pipeline and
// proofservice, registered once here so both packages can instrument
// themselves without each hosting process having to know their internals --
// the same role cmd/katie-server/metrics.go's package-level vars play for
// the teacher's insert and request counters, just factored out so it isn't
// main-package-only.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// PushesTotal counts leaves the pipeline's writer stage has folded
	// into the log.
	PushesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_pushes_total",
		Help: "Number of log leaves folded into the log by the pipeline writer.",
	})

	// TicksTotal counts every checkpoint-interval tick the checkpointer
	// observes, whether or not it had anything pending to flush.
	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_ticks_total",
		Help: "Number of checkpoint-interval ticks observed by the checkpointer.",
	})

	// CheckpointsEmittedTotal counts every non-empty batch the checkpointer
	// flushes into a PendingCheckpoint, on a tick or in the final flush at
	// shutdown.
	CheckpointsEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_checkpoints_emitted_total",
		Help: "Number of pending checkpoints emitted by the checkpointer.",
	})

	// CheckpointPublishLatency measures the time between a checkpoint
	// being flushed by the checkpointer and the signer publishing it.
	CheckpointPublishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_checkpoint_publish_latency_seconds",
		Help:    "Time from checkpoint flush to signed publish.",
		Buckets: prometheus.DefBuckets,
	})

	// ProofRequestsTotal counts ProofService calls, labeled by the kind of
	// proof requested and whether it succeeded.
	ProofRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "proofservice_requests_total",
		Help: "Number of proof requests served, labeled by kind and result.",
	}, []string{"kind", "result"})
)

func init() {
	prometheus.MustRegister(
		PushesTotal,
		TicksTotal,
		CheckpointsEmittedTotal,
		CheckpointPublishLatency,
		ProofRequestsTotal,
	)
}
