// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"errors"
	"strconv"

	"go.uber.org/multierr"

	"codello.dev/dertree"
)

// ErrTruncated indicates input that [Decode] skipped because it was cut short.
var ErrTruncated = errors.New("truncated element")

// MismatchError reports an element whose re-encoding differs from the original
// input.
type MismatchError struct {
	Node   *dertree.Node // innermost node that does not reproduce, nil for truncated input
	Offset int           // offset of the first differing byte in the original input
	Err    error         // encoding error, if encoding failed
}

func (e *MismatchError) Error() string {
	s := "der: "
	if e.Node != nil {
		s += e.Node.Label + " at offset " + strconv.Itoa(e.Node.ByteOffset) + ": "
	}
	if e.Err != nil {
		return s + e.Err.Error()
	}
	return s + "re-encoding differs at offset " + strconv.Itoa(e.Offset)
}

func (e *MismatchError) Unwrap() error { return e.Err }

// Verify decodes buf and encodes every decoded element again. It returns nil
// if every element reproduces its original bytes. Otherwise, it reports each
// innermost element that does not reproduce as a [*MismatchError]. Trailing
// input that was skipped as truncated is reported as a [*MismatchError]
// wrapping [ErrTruncated]. Use [multierr.Errors] to inspect multiple errors.
//
// If buf cannot be decoded at all, the decoding error is returned.
func Verify(buf []byte, opts ...Option) error {
	root, err := Decode(buf, opts...)
	if err != nil {
		return err
	}
	var errs []error
	end := 0
	for _, c := range root.Children {
		errs = append(errs, verifyNode(buf, c, opts)...)
		end = c.ByteOffset + c.ByteLength
	}
	if end < len(buf) {
		errs = append(errs, &MismatchError{Offset: end, Err: ErrTruncated})
	}
	return multierr.Combine(errs...)
}

// verifyNode reports the innermost descendants of n that do not reproduce
// their span of buf.
func verifyNode(buf []byte, n *dertree.Node, opts []Option) []error {
	want := buf[n.ByteOffset : n.ByteOffset+n.ByteLength]
	got, err := Encode(n, opts...)
	if err == nil && bytes.Equal(got, want) {
		return nil
	}
	var errs []error
	for _, c := range n.Children {
		errs = append(errs, verifyNode(buf, c, opts)...)
	}
	if len(errs) > 0 {
		return errs
	}
	if err != nil {
		return []error{&MismatchError{Node: n, Offset: n.ByteOffset, Err: err}}
	}
	return []error{&MismatchError{Node: n, Offset: n.ByteOffset + firstDifference(got, want)}}
}

func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
