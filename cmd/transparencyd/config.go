package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/pkgledger/regtransparency/crypto/suites"
)

// Config specifies the file format of transparencyd's config file. It
// covers exactly the configuration surface the core itself accepts as
// constructor arguments; nothing under the core packages reads this file
// directly.
type Config struct {
	MetricsAddr string `yaml:"metrics-addr"`

	HashAlgorithm      string `yaml:"hash-algorithm"`
	SignatureAlgorithm string `yaml:"signature-algorithm"`

	CheckpointInterval string `yaml:"checkpoint-interval"`
	checkpointInterval time.Duration

	RootRetention   int `yaml:"root-retention"`
	ChannelCapacity int `yaml:"channel-capacity"`

	SigningKey string `yaml:"signing-key"` // hex-encoded ed25519 seed
	suite      suites.CipherSuite
	signingKey suites.SigningPrivateKey
}

func ReadConfig(filename string) (*Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var parsed Config
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	if parsed.MetricsAddr == "" {
		return nil, fmt.Errorf("field not provided: metrics-addr")
	} else if parsed.SigningKey == "" {
		return nil, fmt.Errorf("field not provided: signing-key")
	}

	switch parsed.HashAlgorithm {
	case "", "sha256":
	default:
		return nil, fmt.Errorf("unsupported hash-algorithm: %v", parsed.HashAlgorithm)
	}
	switch parsed.SignatureAlgorithm {
	case "", "ed25519":
	default:
		return nil, fmt.Errorf("unsupported signature-algorithm: %v", parsed.SignatureAlgorithm)
	}
	parsed.suite = suites.KTSha256Ed25519{}

	if parsed.CheckpointInterval == "" {
		parsed.checkpointInterval = 5 * time.Second
	} else {
		d, err := time.ParseDuration(parsed.CheckpointInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to parse checkpoint-interval: %v", err)
		}
		parsed.checkpointInterval = d
	}

	if parsed.RootRetention <= 0 {
		parsed.RootRetention = 64
	}
	if parsed.ChannelCapacity <= 0 {
		parsed.ChannelCapacity = 4
	}

	signingKey, err := parsed.suite.ParseSigningPrivateKey([]byte(parsed.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %v", err)
	}
	parsed.signingKey = signingKey

	return &parsed, nil
}
