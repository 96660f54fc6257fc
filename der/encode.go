// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"strconv"

	"codello.dev/dertree"
	"codello.dev/dertree/tlv"
)

// Encode returns the DER encoding of the tree rooted at n. If n is a root
// container ([dertree.ClassRoot]), the result is the concatenation of the
// encodings of its children.
//
// Only the tag class, tag number, constructed flag and the value or children
// of each node are used. Lengths are always recomputed. A constructed node is
// encoded from its children; if it has none, its value is used instead. A
// primitive node without a value has empty content.
//
// Rendered placeholders do not encode. An unknown tag whose value is a bare
// "[N bytes]" fails with [InvalidValue] instead of being used as text. An
// OCTET STRING value "[N bytes] <hex>" fails with [InvalidLength] unless the
// hex digits encode exactly N octets. The first two arcs of an OBJECT
// IDENTIFIER are combined as 40*a+b, and [Decode] splits first subidentifiers
// of 80 and above as arc 2, so "2.999" round-trips.
//
// If any node cannot be encoded, Encode returns a [*EncodeError] and no data.
func Encode(n *dertree.Node, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	if n.IsRoot() {
		return o.appendChildren(nil, n.Children, 1)
	}
	return o.appendNode(nil, n, 1)
}

func (o *options) appendChildren(b []byte, children []*dertree.Node, depth int) ([]byte, error) {
	var err error
	for _, c := range children {
		if b, err = o.appendNode(b, c, depth); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// appendNode appends the encoding of n at the given nesting depth to b.
func (o *options) appendNode(b []byte, n *dertree.Node, depth int) ([]byte, error) {
	if depth > o.maxDepth {
		return nil, &EncodeError{Kind: InvalidValue, Tag: n.Tag(), Msg: "more than " + strconv.Itoa(o.maxDepth) + " levels", Err: ErrTooDeep}
	}
	switch {
	case n.IsRoot():
		return nil, &EncodeError{Kind: InvalidTag, Tag: n.Tag(), Msg: "a root container can only enclose the whole tree"}
	case !n.TagClass.IsValid():
		return nil, &EncodeError{Kind: InvalidTag, Tag: n.Tag(), Msg: "unknown tag class"}
	case n.TagNumber > dertree.MaxTagNumber:
		return nil, &EncodeError{Kind: UnsupportedType, Tag: n.Tag(), Msg: "tag numbers above 30 are not supported"}
	}

	var content []byte
	var err error
	if n.IsConstructed && n.Children != nil {
		content, err = o.appendChildren(nil, n.Children, depth+1)
	} else if n.Value != nil {
		content, err = lookup(n.TagNumber).parse(*n.Value)
		var encErr *EncodeError
		if errors.As(err, &encErr) {
			encErr.Tag = n.Tag()
			encErr.Value = *n.Value
		}
	}
	if err != nil {
		return nil, err
	}

	h := tlv.Header{Tag: n.Tag(), Constructed: n.IsConstructed, Length: len(content)}
	if b, err = tlv.AppendHeader(b, h); err != nil {
		return nil, &EncodeError{Kind: InvalidTag, Tag: n.Tag(), Err: err}
	}
	return append(b, content...), nil
}
