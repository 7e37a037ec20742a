package wire

import (
	"fmt"

	"github.com/pkgledger/regtransparency/crypto/canon"
	"github.com/pkgledger/regtransparency/hash"
	"github.com/pkgledger/regtransparency/transparency"
)

// Encode writes b as leb128(count) { leb128(entry_count) { tagged_digest } }.
func (b Bundle) Encode() []byte {
	w := canon.NewWriter(64 * len(b.Entries))
	w.WriteUvarint(uint64(len(b.Entries)))
	for _, entry := range b.Entries {
		w.WriteUvarint(uint64(len(entry)))
		for _, d := range entry {
			d.Encode(w)
		}
	}
	return w.Bytes()
}

// Decode parses a Bundle previously produced by Encode. It rejects
// truncated, over-long, or tag-mismatched input with ErrMalformedBundle.
func Decode(data []byte) (Bundle, error) {
	r := canon.NewReader(data)

	count, err := r.ReadUvarint()
	if err != nil {
		return Bundle{}, malformed(err)
	}
	// A bundle with an absurd declared entry count is the same kind of
	// malformed input as a truncated one; bound it by the bytes actually
	// available so a corrupt length field can't force a huge allocation.
	if count > uint64(len(data)) {
		return Bundle{}, malformed(fmt.Errorf("declared entry count %d exceeds input size", count))
	}

	entries := make([][]hash.Digest, 0, count)
	for i := uint64(0); i < count; i++ {
		entryCount, err := r.ReadUvarint()
		if err != nil {
			return Bundle{}, malformed(err)
		}
		if entryCount > uint64(len(data)) {
			return Bundle{}, malformed(fmt.Errorf("declared digest count %d exceeds input size", entryCount))
		}
		digests := make([]hash.Digest, entryCount)
		for j := uint64(0); j < entryCount; j++ {
			d, err := hash.DecodeDigest(r)
			if err != nil {
				return Bundle{}, malformed(err)
			}
			digests[j] = d
		}
		entries = append(entries, digests)
	}

	if r.Remaining() != 0 {
		return Bundle{}, malformed(fmt.Errorf("%d trailing bytes after bundle", r.Remaining()))
	}

	return Bundle{Entries: entries}, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", transparency.ErrMalformedBundle, err)
}
