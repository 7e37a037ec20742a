// Package suites implements each supported cipher suite: the pairing of a
// hash algorithm with a signature scheme that a pipeline is constructed
// with once and never switches at runtime.
package suites

import (
	"github.com/pkgledger/regtransparency/hash"
)

// CipherSuite is the interface implemented by each supported cipher suite.
//
// The methods that start with "Parse" expect their input to come from
// locally stored configuration; this may differ from how the same values
// are serialized for use on the wire.
type CipherSuite interface {
	// HashAlgorithm returns the tagged hash algorithm this suite uses for
	// every tree and envelope in the pipeline.
	HashAlgorithm() hash.Algorithm

	ParseSigningPrivateKey(raw []byte) (SigningPrivateKey, error)
	ParseSigningPublicKey(raw []byte) (SigningPublicKey, error)

	// Fingerprint computes the key_id used in a signed envelope: a digest
	// of the public key's canonical wire bytes, under this suite's hash
	// algorithm.
	Fingerprint(pub SigningPublicKey) hash.Digest
}

// SigningPrivateKey is the interface implemented by signature private keys.
type SigningPrivateKey interface {
	Sign(message []byte) ([]byte, error)
	Public() SigningPublicKey
}

// SigningPublicKey is the interface implemented by signature public keys.
type SigningPublicKey interface {
	Verify(message, sig []byte) bool
	// Bytes returns the encoded public key, following protocol rules.
	Bytes() []byte
}
