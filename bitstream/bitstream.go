// Package bitstream packs and unpacks ordered bit sequences.
// Within each byte, bits are addressed most significant first.
// The final partial byte of a packed sequence is padded with zero bits,
// and the number of valid bits is carried separately from the bytes.
package bitstream

import (
	"github.com/pkg/errors"
)

// ErrExhausted is returned when reading past the declared number of valid bits.
var ErrExhausted = errors.New("bitstream exhausted")

// A Writer appends bit sequences to a growing buffer.
// The zero value is an empty Writer ready to use.
type Writer struct {
	buf   []byte
	nbits int
}

// WriteBits appends the n low-order bits of v, most significant first.
// n must be in [0, 64].
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic("bitstream: invalid bit count")
	}
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(int(v>>uint(i)) & 1)
	}
}

// WriteBit appends a single bit. Any nonzero bit is written as 1.
func (w *Writer) WriteBit(bit int) {
	if w.nbits%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit != 0 {
		w.buf[len(w.buf)-1] |= 1 << uint(7-w.nbits%8)
	}
	w.nbits++
}

// Len returns the number of valid bits written so far.
func (w *Writer) Len() int {
	return w.nbits
}

// Bytes returns the packed bits.
// The unused low-order bits of the last byte are zero.
// The returned slice aliases the Writer's buffer until the next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reset discards all written bits.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.nbits = 0
}

// A Reader yields the bits of a packed byte sequence in order.
type Reader struct {
	packed []byte
	n      int // number of valid bits
	off    int // bit offset of the next read
}

// NewReader returns a Reader over the first n bits of packed.
// It fails with ErrExhausted if packed holds fewer than n bits.
func NewReader(packed []byte, n int) (*Reader, error) {
	if n < 0 {
		return nil, errors.Errorf("bitstream: negative bit count %d", n)
	}
	if n > len(packed)*8 {
		return nil, errors.Wrapf(ErrExhausted, "%d valid bits declared, %d bytes present", n, len(packed))
	}
	return &Reader{packed: packed, n: n}, nil
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (int, error) {
	if r.off >= r.n {
		return 0, errors.Wrapf(ErrExhausted, "bit offset %d", r.off)
	}
	bit := int(r.packed[r.off/8]>>uint(7-r.off%8)) & 1
	r.off++
	return bit, nil
}

// ReadBits returns the next n bits as the low-order bits of the result,
// the first bit read being the most significant. n must be in [0, 64].
// Nothing is consumed if fewer than n bits remain.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		panic("bitstream: invalid bit count")
	}
	if n > r.Remaining() {
		return 0, errors.Wrapf(ErrExhausted, "bit offset %d: want %d bits, %d remain", r.off, n, r.Remaining())
	}
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<1 | uint64(r.packed[r.off/8]>>uint(7-r.off%8)&1)
		r.off++
	}
	return v, nil
}

// Offset returns the bit offset of the next read.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of valid bits not yet read.
func (r *Reader) Remaining() int {
	return r.n - r.off
}
