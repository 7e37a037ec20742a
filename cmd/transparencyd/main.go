// Command transparencyd is the hosting process that wires the transparency
// core's pipeline and proof service together: it loads a signing key and the
// core's configuration surface from a config file, starts the pipeline, and
// serves metrics and pprof on a debug port. It is deliberately thin — no
// REST handlers, content store, or fetch/publish transport live here; those
// are external collaborators that submit leaves to Pipeline.Push and read
// SignedCheckpoint / proof bundles off the core's public methods.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkgledger/regtransparency/pipeline"
	"github.com/pkgledger/regtransparency/proofservice"
)

var (
	Version   = "dev"
	GoVersion = runtime.Version()

	configFile = flag.String("config", "", "Location of config file.")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC)
	flag.Parse()

	if *configFile == "" {
		log.Fatalf("No config file provided, see --help.")
	}
	config, err := ReadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	svc := proofservice.New(config.suite.HashAlgorithm(), config.RootRetention)

	p := pipeline.New(config.suite.HashAlgorithm(), pipeline.Config{
		Suite:              config.suite,
		PrivateKey:         config.signingKey,
		CheckpointInterval: config.checkpointInterval,
		ChannelCapacity:    config.ChannelCapacity,
		Indexer:            svc,
	})

	go metrics(config.MetricsAddr)
	go publishLoop(p)

	log.Printf("transparencyd started, version=%s", Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("shutting down: draining pipeline")
	p.Stop()
}

// publishLoop logs every checkpoint the pipeline emits. A real deployment
// would instead hand this off to whatever serves the "current checkpoint"
// to fetch clients; that transport is out of this core's scope.
func publishLoop(p *pipeline.Pipeline) {
	for pub := range p.Published {
		log.Printf("published checkpoint: log_length=%d log_root=%x map_root=%x",
			pub.Checkpoint.Contents.LogLength,
			pub.Checkpoint.Contents.LogRoot.Bytes,
			pub.Checkpoint.Contents.MapRoot.Bytes)
	}
}
