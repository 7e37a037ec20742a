package log

import (
	"fmt"

	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/transparency"
)

var errProofFailure = transparency.ErrProofFailure

func transparencyUnknownRoot(root hash.Digest) error {
	return fmt.Errorf("%w: %s:%x", transparency.ErrUnknownRoot, root.Algorithm, root.Bytes)
}
