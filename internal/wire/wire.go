// Package wire implements the single canonical binary encoder used across
// the module: fixed little-endian, length-prefixed byte sequences,
// a one-byte tag for optionals, and a one-byte tag for enums. Every
// persisted or transported value in this module (RDataRef, RData,
// REncData, Record, and whole RecordChains over the wire) goes through
// this encoder, and nothing else, so that hash and signature commitments
// are reproducible byte-for-byte.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Present/Absent are the one-byte optional tags.
const (
	Absent  byte = 0x00
	Present byte = 0x01
)

// Writer accumulates a canonical byte sequence.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer, optionally pre-sized.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteTag writes a single tag byte, used for enum discriminants and the
// Present/Absent optional markers.
func (w *Writer) WriteTag(tag byte) {
	w.buf = append(w.buf, tag)
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteBytes writes a uint32 length prefix followed by raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteFixed writes raw bytes with no length prefix, for fields whose
// length is fixed by the type itself (32-byte scalars/points, 64-byte
// hashes).
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reader consumes a canonical byte sequence produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential reads.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("wire: truncated input: need %d bytes at offset %d, have %d", n, r.pos, len(r.buf))
	}
	return nil
}

// ReadTag reads a single tag byte.
func (r *Reader) ReadTag() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadBytes reads a uint32 length prefix followed by that many bytes.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

// ReadFixed reads exactly n raw bytes with no length prefix.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Remaining reports whether unconsumed bytes remain.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }
