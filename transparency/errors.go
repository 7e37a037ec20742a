package transparency

import "errors"

// Error kinds raised across the pipeline. Writer-side errors (a signing
// failure in the Signer; Push and the Checkpointer have no error path) are
// fatal for the stage that encountered them;
// reader-side errors (returned from ProofService) are reported to the
// caller without tearing anything down.
var (
	// ErrUnknownRoot is raised by ProofService when the requested root is
	// not currently retained.
	ErrUnknownRoot = errors.New("transparency: unknown root")
	// ErrProofFailure is raised by ProofService when a tree cannot produce
	// a proof for the requested leaf.
	ErrProofFailure = errors.New("transparency: proof failure")
	// ErrIncorrectProof is raised by ProofService when a self-check finds
	// that a freshly generated proof evaluates to the wrong root.
	ErrIncorrectProof = errors.New("transparency: incorrect proof")
	// ErrMalformedBundle is raised by the proof bundle codec on decode.
	ErrMalformedBundle = errors.New("transparency: malformed bundle")
	// ErrSignatureError is raised by the Signer or the envelope verifier.
	ErrSignatureError = errors.New("transparency: signature error")
)
