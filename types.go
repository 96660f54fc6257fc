// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dertree

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits are zero.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String formats s as a sequence of '0' and '1' characters, most significant
// bit of each byte first.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.BitLength)
	for i := 0; i < s.BitLength; i++ {
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

var errBitChar = errors.New("bit string may only contain '0' and '1'")

// ParseBitString parses a sequence of '0' and '1' characters as produced by
// [BitString.String]. The bits of the final byte that exceed the length of
// bits are zero.
func ParseBitString(bits string) (BitString, error) {
	s := BitString{Bytes: make([]byte, (len(bits)+7)/8), BitLength: len(bits)}
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
		case '1':
			s.Bytes[i/8] |= 0x80 >> (i % 8)
		default:
			return BitString{}, errBitChar
		}
	}
	return s, nil
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of an object identifier are specified in [Rec. ITU-T X.660].
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	return formatArcs(oid)
}

// IsValid reports whether oid can be encoded. An object identifier has at
// least two arcs. The first arc is 0, 1 or 2. The second arc is below 40 unless
// the first arc is 2.
func (oid ObjectIdentifier) IsValid() bool {
	if len(oid) < 2 || oid[0] > 2 {
		return false
	}
	return oid[0] == 2 || oid[1] < 40
}

var (
	errArcCount = errors.New("object identifier needs at least two arcs")
	errRoot     = errors.New("first arc must be 0, 1 or 2 and second arc below 40 unless the first is 2")
)

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier, e.g. "1.2.840.113549". The result is valid.
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	arcs, err := parseArcs(s)
	if err != nil {
		return nil, err
	}
	oid := ObjectIdentifier(arcs)
	if len(oid) < 2 {
		return nil, errArcCount
	}
	if !oid.IsValid() {
		return nil, errRoot
	}
	return oid, nil
}

//endregion

//region [UNIVERSAL 13] RELATIVE-OID

// RelativeOID represents the ASN.1 RELATIVE OID type. This is similar to the
// [ObjectIdentifier] type, but a RelativeOID is only a suffix of an OID.
//
// See also section 33 of Rec. ITU-T X.680.
type RelativeOID []uint

// Equal reports whether oid and other represent the same identifier.
func (oid RelativeOID) Equal(other RelativeOID) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid RelativeOID) String() string {
	return formatArcs(oid)
}

// ParseRelativeOID parses the dot-separated notation of a relative object
// identifier. At least one arc is required.
func ParseRelativeOID(s string) (RelativeOID, error) {
	arcs, err := parseArcs(s)
	if err != nil {
		return nil, err
	}
	return arcs, nil
}

//endregion

func formatArcs(arcs []uint) string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 20)
	for i, v := range arcs {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
	}
	return s.String()
}

var errEmptyArc = errors.New("empty arc")

func parseArcs(s string) ([]uint, error) {
	if s == "" {
		return nil, errEmptyArc
	}
	parts := strings.Split(s, ".")
	arcs := make([]uint, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, errEmptyArc
		}
		v, err := strconv.ParseUint(p, 10, strconv.IntSize)
		if err != nil {
			return nil, err
		}
		arcs[i] = uint(v)
	}
	return arcs, nil
}
