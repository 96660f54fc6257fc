// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der converts between DER encoded data and [dertree.Node] trees.
//
// [Decode] parses a buffer into a tree. The content of every primitive element
// is rendered as a display string whose grammar depends on the tag number of
// the element. [Encode] reverses the process. It parses the display strings of
// a (possibly hand-edited) tree back into bytes and recomputes every header.
// The grammars accepted by [Encode] are documented alongside the renderers in
// this package. Besides the output of [Decode], alternate spellings produced by
// earlier renderers and typical hand-written values are accepted.
//
// The grammar is selected by tag number only, regardless of the tag class. A
// primitive [CONTEXT 2] element is rendered like an INTEGER.
//
// # Round Trip
//
// Encoding a decoded tree reproduces the original bytes as long as the input
// is canonical DER and the rendering is lossless. By default, OCTET STRING
// values only show their first 16 bytes and elements with unknown tag numbers
// only show their size. Use [WithLossless] to render these values completely.
// [Verify] reports the elements of a buffer that do not survive the round trip.
//
// # Limits
//
// Tag numbers above 30 (long-form tags) are not supported. The decoder reports
// such an element with tag number 31 and does not consume continuation octets.
// The encoder rejects tag numbers above 30. Indefinite lengths and lengths
// with more than 4 octets are rejected by the decoder. Nesting is limited to
// [DefaultMaxDepth] levels unless configured otherwise via [WithMaxDepth].
package der

import (
	"codello.dev/dertree/internal/logging"
)

var logger = logging.New("der")

// DefaultMaxDepth is the default nesting limit of [Decode] and [Encode].
const DefaultMaxDepth = 64

// DefaultLabel is the default label of the root node returned by [Decode].
const DefaultLabel = "DER"

// Names resolves dotted object identifiers to display names.
type Names interface {
	Name(oid string) (name string, ok bool)
}

// An Option configures [Decode], [Encode] and [Verify]. Options that only
// affect one direction are ignored by the other.
type Option func(*options)

type options struct {
	maxDepth int
	lossless bool
	names    Names
	label    string
}

func newOptions(opts []Option) *options {
	o := &options{maxDepth: DefaultMaxDepth, label: DefaultLabel}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMaxDepth limits the nesting of elements to n levels. Top-level elements
// are at level 1. A value below 1 selects [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultMaxDepth
		}
		o.maxDepth = n
	}
}

// WithLossless selects the lossless rendering of OCTET STRING values and
// elements with unknown tag numbers.
func WithLossless(lossless bool) Option {
	return func(o *options) {
		o.lossless = lossless
	}
}

// WithNames annotates decoded object identifiers with the names known to
// names, e.g. "1.2.840.113549.1.1.1 (rsaEncryption)". The annotation is ignored
// when encoding.
func WithNames(names Names) Option {
	return func(o *options) {
		o.names = names
	}
}

// WithLabel sets the label of the root node returned by [Decode].
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
