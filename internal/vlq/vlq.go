// Package vlq implements [Variable-length quantity] encoding as used for the
// arcs of DER object identifiers. A VLQ is a base-128 big-endian
// representation of an unsigned integer where the eighth bit of every octet but
// the last marks continuation.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"
)

var errOverflow = errors.New("vlq too large for target type")

// Decode parses one unsigned VLQ from the start of b and reports the number of
// bytes it occupies. The maximum allowed value is limited by the size of T.
//
// If b is empty, Decode returns io.EOF. If the last byte of b still has its
// continuation bit set, Decode returns the value accumulated so far together
// with io.ErrUnexpectedEOF. Leading 0x80 octets are accepted; use [IsMinimal]
// to detect them.
func Decode[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, io.EOF
	}
	numBits := 0
	for n < len(b) {
		c := b[n]
		n++
		if numBits == 0 {
			numBits = bits.Len8(c & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, n, errOverflow
		}
		ret = ret<<7 | T(c&0x7f)
		if c&0x80 == 0 {
			return ret, n, nil
		}
	}
	return ret, n, io.ErrUnexpectedEOF
}

// IsMinimal reports whether the VLQ at the start of b does not begin with a
// padding octet.
func IsMinimal(b []byte) bool {
	return len(b) == 0 || b[0] != 0x80
}

// Length returns the number of bytes needed to encode n as a VLQ.
func Length[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the minimal VLQ encoding of i to b and returns the extended
// slice.
func Append[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](b []byte, i T) []byte {
	for j := Length(i) - 1; j >= 0; j-- {
		c := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			c |= 0x80
		}
		b = append(b, c)
	}
	return b
}
