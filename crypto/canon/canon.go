// Package canon implements the canonical byte encoding used everywhere two
// parties need to agree on the exact bytes of a value before hashing or
// signing it: log and map leaves, tree heads, and signed envelope contents
// all go through a Writer before they touch a hash function.
//
// The encoding is a length-delimited LEB128 scheme: unsigned integers are
// written as base-128 varints, and byte strings are written as a varint
// length followed by the raw bytes. There is no padding and no alternate
// representation for a given value, so two writers given the same calls
// always produce the same bytes.
package canon

import "encoding/binary"

// Writer accumulates a canonical byte encoding. The zero value is ready to
// use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with the given initial capacity hint.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

// WriteByte appends a single tag byte, typically a domain-separation
// constant.
func (w *Writer) WriteByte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteUvarint appends v as an unsigned LEB128 varint.
func (w *Writer) WriteUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

// WriteBytes appends the LEB128-encoded length of b followed by b itself.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUvarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString appends the LEB128-encoded length of s followed by its bytes.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// WriteRaw appends b with no length prefix. Only safe to use at a fixed
// position known to both encoder and decoder, or as the final field.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Bytes returns the accumulated canonical encoding.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader parses a canonical byte encoding produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential parsing.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// ErrTruncated is returned when the reader runs out of bytes mid-field.
var ErrTruncated = errShort{}

type errShort struct{}

func (errShort) Error() string { return "canon: truncated input" }

// ReadByte consumes and returns a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrTruncated
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUvarint consumes a LEB128 varint.
func (r *Reader) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	r.pos += n
	return v, nil
}

// ReadBytes consumes a length-prefixed byte string.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if uint64(r.pos)+n > uint64(len(r.buf)) {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// ReadRaw consumes exactly n bytes with no length prefix.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Remaining reports whether unconsumed bytes remain.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}
