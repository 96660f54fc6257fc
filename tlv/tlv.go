// Package tlv implements the tag-length-value (TLV) header syntax of the
// Distinguished Encoding Rules (DER) as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// This package deals with the syntactic layer of TLV-encoding while the
// [codello.dev/dertree/der] package deals with the semantic layer, turning
// encoded values into a tree of nodes and back.
//
// # Headers
//
// Each data value is preceded by a header consisting of an identifier octet and
// a length. The header is represented by the [Header] type. Only the subset of
// the syntax that DER uses for single-octet tags is supported:
//
//   - The tag number is taken from the low five bits of the identifier octet.
//     The value 31 announces a long-form tag number. [ParseHeader] reports it
//     verbatim without consuming continuation octets; [AppendHeader] refuses
//     to produce it.
//   - The length uses the definite form. Lengths below 128 are encoded in a
//     single octet. Larger lengths are encoded as 0x80 | k followed by k
//     big-endian octets, where k is between 1 and 4.
//
// Malformed length octets are reported as [ErrMalformedHeader]. A header cut
// short by the end of the input is reported as [io.ErrUnexpectedEOF].
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"strconv"

	"codello.dev/dertree"
)

// Header represents a TLV header.
type Header struct {
	Tag         dertree.Tag
	Constructed bool
	Length      int
}

// String returns a string representation of h.
func (h Header) String() string {
	s := h.Tag.String()
	if h.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	s += ":" + strconv.Itoa(h.Length)
	return s
}

// Size returns the number of bytes the encoding of h occupies, not including
// the data value.
func (h Header) Size() int {
	return 1 + LengthSize(h.Length)
}

// requireKeyedLiterals can be embedded in a struct to require keyed literals.
type requireKeyedLiterals struct{}

// nonComparable can be embedded in a struct to prevent comparability.
type nonComparable [0]func()
