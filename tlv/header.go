package tlv

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"

	"codello.dev/dertree"
)

// MaxLengthOctets is the maximum number of octets in the long form of a
// length.
const MaxLengthOctets = 4

// longFormTag is the tag number announcing a multi-octet tag.
const longFormTag = 0x1f

var (
	// ErrMalformedHeader indicates a length that cannot be decoded.
	ErrMalformedHeader = errors.New("malformed length")

	// ErrLongFormTag indicates a tag number that does not fit into a single
	// identifier octet.
	ErrLongFormTag = errors.New("tag numbers above 30 are not supported")

	// ErrInvalidClass indicates a tag class that cannot be encoded.
	ErrInvalidClass = errors.New("invalid tag class")

	errIndefiniteLength = fmt.Errorf("%w: indefinite length", ErrMalformedHeader)
	errLengthOctets     = fmt.Errorf("%w: more than %d length octets", ErrMalformedHeader, MaxLengthOctets)
	errNegativeLength   = errors.New("negative length")
)

// ParseHeader decodes the TLV header at the start of b. It returns the header
// and the number of bytes it occupies. Only the header is validated; the data
// value may extend beyond the end of b.
//
// A long-form identifier octet is reported with tag number 31. The
// continuation octets that follow it are interpreted as the length.
func ParseHeader(b []byte) (h Header, n int, err error) {
	if len(b) == 0 {
		return h, 0, io.ErrUnexpectedEOF
	}
	h.Tag = dertree.Tag{Class: dertree.Class(b[0] >> 6), Number: uint(b[0] & 0x1f)}
	h.Constructed = b[0]&0x20 == 0x20

	h.Length, n, err = ParseLength(b[1:])
	return h, 1 + n, err
}

// ParseLength decodes the length octets at the start of b. It returns the
// length and the number of octets it occupies.
func ParseLength(b []byte) (length, n int, err error) {
	if len(b) == 0 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	if b[0]&0x80 == 0 {
		// The length is encoded in the bottom 7 bits.
		return int(b[0]), 1, nil
	}
	// Bottom 7 bits give the number of length bytes to follow.
	numBytes := int(b[0] & 0x7f)
	switch {
	case numBytes == 0:
		return 0, 0, errIndefiniteLength
	case numBytes > MaxLengthOctets:
		return 0, 0, errLengthOctets
	case len(b) < 1+numBytes:
		return 0, 0, io.ErrUnexpectedEOF
	}
	var l uint64
	for _, c := range b[1 : 1+numBytes] {
		l = l<<8 | uint64(c)
	}
	if l > math.MaxInt {
		return 0, 0, fmt.Errorf("%w: length %d too large", ErrMalformedHeader, l)
	}
	return int(l), 1 + numBytes, nil
}

// LengthSize returns the number of octets needed to encode length.
func LengthSize(length int) int {
	if length < 128 {
		return 1
	}
	return 1 + (bits.Len(uint(length))+7)/8
}

// AppendLength appends the minimal encoding of length to b and returns the
// extended slice. length must not be negative.
func AppendLength(b []byte, length int) []byte {
	if length < 128 {
		return append(b, byte(length))
	}
	numBytes := (bits.Len(uint(length)) + 7) / 8
	b = append(b, 0x80|byte(numBytes))
	for ; numBytes > 0; numBytes-- {
		b = append(b, byte(length>>uint((numBytes-1)*8)))
	}
	return b
}

// AppendHeader appends the encoding of h to b and returns the extended slice.
// If h cannot be encoded, b is returned unchanged together with an error.
func AppendHeader(b []byte, h Header) ([]byte, error) {
	if !h.Tag.Class.IsValid() {
		return b, ErrInvalidClass
	}
	if h.Tag.Number >= longFormTag {
		return b, ErrLongFormTag
	}
	if h.Length < 0 {
		return b, errNegativeLength
	}
	id := byte(h.Tag.Class)<<6 | byte(h.Tag.Number)
	if h.Constructed {
		id |= 0x20
	}
	return AppendLength(append(b, id), h.Length), nil
}
