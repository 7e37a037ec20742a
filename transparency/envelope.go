package transparency

import (
	"fmt"

	"github.com/pkgledger/regtransparency/crypto/suites"
	"github.com/pkgledger/regtransparency/hash"
)

// Contents is implemented by anything that can be carried inside an
// Envelope: a value with a single deterministic byte encoding and a
// domain-separation tag unique to its type.
type Contents interface {
	Canonical() []byte
	DomainTag() string
}

// Envelope carries a value together with the key id and signature produced
// over its canonical bytes. It is the signed-checkpoint shape generalized
// to any Contents type, the way the repository's envelope type varies over
// its contents by a type parameter.
type Envelope[T Contents] struct {
	Contents  T
	KeyID     hash.Digest
	Signature []byte
}

// SignedContents signs contents with priv under suite, computing key_id as
// the fingerprint of the corresponding public key.
func SignedContents[T Contents](suite suites.CipherSuite, priv suites.SigningPrivateKey, contents T) (Envelope[T], error) {
	msg := signingMessage(contents)
	sig, err := priv.Sign(msg)
	if err != nil {
		return Envelope[T]{}, fmt.Errorf("%w: %v", ErrSignatureError, err)
	}
	return Envelope[T]{
		Contents:  contents,
		KeyID:     suite.Fingerprint(priv.Public()),
		Signature: sig,
	}, nil
}

// FromPartsUnchecked builds an Envelope from already-deserialized parts,
// performing no verification. Callers must call Verify before trusting it.
func FromPartsUnchecked[T Contents](contents T, keyID hash.Digest, signature []byte) Envelope[T] {
	return Envelope[T]{Contents: contents, KeyID: keyID, Signature: signature}
}

// Verify recomputes the prefixed message and checks the signature against
// pub. It does not check that pub's fingerprint matches e.KeyID; callers
// that look keys up by key id have already established that binding.
func (e Envelope[T]) Verify(pub suites.SigningPublicKey) error {
	msg := signingMessage(e.Contents)
	if !pub.Verify(msg, e.Signature) {
		return ErrSignatureError
	}
	return nil
}

// signingMessage computes PREFIX ‖ ":" ‖ canonical_bytes(contents).
func signingMessage[T Contents](contents T) []byte {
	prefix := contents.DomainTag()
	msg := make([]byte, 0, len(prefix)+1+64)
	msg = append(msg, prefix...)
	msg = append(msg, ':')
	msg = append(msg, contents.Canonical()...)
	return msg
}

// SignedCheckpoint is the concrete envelope type this pipeline publishes.
type SignedCheckpoint = Envelope[MapCheckpoint]
