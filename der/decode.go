// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"codello.dev/dertree"
	"codello.dev/dertree/tlv"
)

// Decode parses the DER encoded elements in buf into a tree. The returned root
// node is a synthetic container of class [dertree.ClassRoot] whose children are
// the top-level elements of buf.
//
// Decoding stops silently at the first element that is cut short by the end of
// its enclosing buffer. The elements decoded up to that point are returned
// without an error. A malformed length aborts decoding with a
// [*tlv.SyntaxError] wrapping [tlv.ErrMalformedHeader]. Exceeding the nesting
// limit aborts decoding with a [*tlv.SyntaxError] wrapping [ErrTooDeep].
//
// The returned tree does not share memory with buf.
func Decode(buf []byte, opts ...Option) (*dertree.Node, error) {
	o := newOptions(opts)
	children, err := o.decodeElements(buf, 0, 1, tlv.Header{})
	if err != nil {
		return nil, err
	}
	return dertree.NewRoot(o.label, len(buf), children), nil
}

// DecodeElements parses the DER encoded elements in buf like [Decode] but
// returns the top-level elements directly. The byte offsets of the returned
// nodes are relative to base.
func DecodeElements(buf []byte, base int, opts ...Option) ([]*dertree.Node, error) {
	return newOptions(opts).decodeElements(buf, base, 1, tlv.Header{})
}

// decodeElements decodes consecutive elements from buf at the given nesting
// depth. buf starts at offset base of the original input. parent is the header
// of the enclosing element, used for error reporting.
func (o *options) decodeElements(buf []byte, base, depth int, parent tlv.Header) ([]*dertree.Node, error) {
	var nodes []*dertree.Node
	for pos := 0; pos < len(buf); {
		h, n, err := tlv.ParseHeader(buf[pos:])
		if errors.Is(err, io.ErrUnexpectedEOF) {
			logger.Debug("truncated header", zap.Int("offset", base+pos), zap.Int("depth", depth))
			break
		} else if err != nil {
			return nil, &tlv.SyntaxError{Err: err, ByteOffset: base + pos, Header: parent}
		}
		start := pos + n
		if h.Length > len(buf)-start {
			logger.Debug("truncated value",
				zap.Int("offset", base+pos),
				zap.Stringer("header", h),
				zap.Int("available", len(buf)-start),
			)
			break
		}
		content := buf[start : start+h.Length]

		node := &dertree.Node{
			Label:         dertree.Label(h.Tag),
			TagClass:      h.Tag.Class,
			TagNumber:     h.Tag.Number,
			IsConstructed: h.Constructed,
			Length:        h.Length,
			ByteOffset:    base + pos,
			ByteLength:    n + h.Length,
		}
		if h.Constructed {
			if len(content) > 0 && depth >= o.maxDepth {
				logger.Debug("nesting limit exceeded", zap.Int("offset", base+pos), zap.Int("maxDepth", o.maxDepth))
				return nil, &tlv.SyntaxError{Err: ErrTooDeep, ByteOffset: base + pos, Header: parent}
			}
			if node.Children, err = o.decodeElements(content, base+start, depth+1, h); err != nil {
				return nil, err
			}
			// BIT STRING content is never nested TLV data
			if h.Tag.Number == dertree.TagBitString {
				node.SetValue(renderBitString(o, content))
			}
		} else {
			node.SetValue(lookup(h.Tag.Number).render(o, content))
		}
		nodes = append(nodes, node)
		pos = start + h.Length
	}
	return nodes, nil
}
