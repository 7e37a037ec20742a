package suites

import (
	"crypto"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/pkgledger/regtransparency/hash"
)

// KTSha256Ed25519 implements the only currently supported cipher suite:
// SHA-256 for hashing, ed25519 for signatures.
type KTSha256Ed25519 struct{}

var _ CipherSuite = KTSha256Ed25519{}

func (s KTSha256Ed25519) HashAlgorithm() hash.Algorithm { return hash.AlgorithmSHA256 }

func (s KTSha256Ed25519) ParseSigningPrivateKey(raw []byte) (SigningPrivateKey, error) {
	decoded := make([]byte, hex.DecodedLen(len(raw)))
	n, err := hex.Decode(decoded, raw)
	if err != nil {
		return nil, err
	} else if n != len(decoded) || len(decoded) != ed25519.SeedSize {
		return nil, fmt.Errorf("suites: signing private key is the wrong size")
	}
	return ed25519PrivateKey{ed25519.NewKeyFromSeed(decoded)}, nil
}

func (s KTSha256Ed25519) ParseSigningPublicKey(raw []byte) (SigningPublicKey, error) {
	decoded := make([]byte, hex.DecodedLen(len(raw)))
	n, err := hex.Decode(decoded, raw)
	if err != nil {
		return nil, err
	} else if n != len(decoded) || len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("suites: signing public key is the wrong size")
	}
	return ed25519PublicKey{ed25519.PublicKey(decoded)}, nil
}

func (s KTSha256Ed25519) Fingerprint(pub SigningPublicKey) hash.Digest {
	return hash.Sum(hash.AlgorithmSHA256, pub.Bytes())
}

// ed25519PrivateKey implements the SigningPrivateKey interface for an
// ed25519 private key.
type ed25519PrivateKey struct {
	inner ed25519.PrivateKey
}

func (k ed25519PrivateKey) Public() SigningPublicKey {
	return ed25519PublicKey{k.inner.Public().(ed25519.PublicKey)}
}

func (k ed25519PrivateKey) Sign(message []byte) ([]byte, error) {
	return k.inner.Sign(nil, message, crypto.Hash(0))
}

// ed25519PublicKey implements the SigningPublicKey interface for an
// ed25519 public key.
type ed25519PublicKey struct {
	inner ed25519.PublicKey
}

func (k ed25519PublicKey) Verify(message, sig []byte) bool {
	return ed25519.Verify(k.inner, message, sig)
}

func (k ed25519PublicKey) Bytes() []byte {
	return []byte(k.inner)
}
