package wire

import (
	"testing"

	"github.com/pkgledger/regtransparency/hash"
)

func assert(ok bool) {
	if !ok {
		panic("Assertion failed.")
	}
}

func equalBundles(a, b Bundle) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		if len(a.Entries[i]) != len(b.Entries[i]) {
			return false
		}
		for j := range a.Entries[i] {
			if !a.Entries[i][j].Equal(b.Entries[i][j]) {
				return false
			}
		}
	}
	return true
}

func TestRoundTrip(t *testing.T) {
	// Invariant 8 — codec round-trip.
	b := Bundle{
		Entries: [][]hash.Digest{
			{hash.Sum(hash.AlgorithmSHA256, []byte("a")), hash.Sum(hash.AlgorithmSHA256, []byte("b"))},
			{}, // a leaf whose inclusion proof happens to be empty
			{hash.Digest{}, hash.Sum(hash.AlgorithmSHA256, []byte("c"))}, // a map proof with a None sibling
		},
	}

	decoded, err := Decode(b.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assert(equalBundles(b, decoded))
}

func TestEmptyBundle(t *testing.T) {
	b := Bundle{}
	decoded, err := Decode(b.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assert(len(decoded.Entries) == 0)
}

func TestRejectsTruncated(t *testing.T) {
	b := Bundle{Entries: [][]hash.Digest{{hash.Sum(hash.AlgorithmSHA256, []byte("a"))}}}
	encoded := b.Encode()
	for n := 0; n < len(encoded); n++ {
		if _, err := Decode(encoded[:n]); err == nil {
			t.Fatalf("expected truncation at %d bytes to be rejected", n)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	b := Bundle{Entries: [][]hash.Digest{{hash.Sum(hash.AlgorithmSHA256, []byte("a"))}}}
	encoded := append(b.Encode(), 0xff)
	if _, err := Decode(encoded); err == nil {
		t.Fatalf("expected trailing bytes to be rejected")
	}
}
