package tlv

import (
	"io"
	"strconv"
)

// SyntaxError represents an error in the TLV encoding. The error value contains
// the location of the error within the input as well as the [Header] of the
// surrounding data value.
type SyntaxError struct {
	requireKeyedLiterals
	nonComparable

	Err error // underlying error

	// ByteOffset is the location of the error. The location is usually the start of
	// the TLV header containing the error.
	ByteOffset int

	// Header is the TLV header of the constructed TLV whose value contained the
	// malformed data. It is the zero value at the top level.
	Header Header
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("tlv: syntax error")
	if e.Header != (Header{}) {
		b = append(b, " within "...)
		b = append(b, e.Header.String()...)
	}
	//goland:noinspection GoDirectComparisonOfErrors
	if e.Err == io.ErrUnexpectedEOF {
		b = strconv.AppendInt(append(b, " at offset "...), int64(e.ByteOffset), 10)
	} else {
		b = strconv.AppendInt(append(b, " for TLV beginning at offset "...), int64(e.ByteOffset), 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}
