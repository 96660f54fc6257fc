// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dertree

// Node is one TLV element of a decoded tree, or the synthetic root that holds
// the top-level elements of a buffer.
//
// ByteOffset and ByteLength locate the element within the buffer it was
// decoded from. Together with Length and Label they are provenance only and
// are recomputed or ignored when a tree is encoded.
//
// A primitive node carries a Value and no Children. A constructed node carries
// Children and no Value, except for a constructed BIT STRING which carries
// both.
type Node struct {
	Label         string  `json:"label"`
	TagClass      Class   `json:"tagClass"`
	TagNumber     uint    `json:"tagNumber"`
	IsConstructed bool    `json:"isConstructed"`
	Length        int     `json:"length"`
	ByteOffset    int     `json:"byteOffset"`
	ByteLength    int     `json:"byteLength"`
	Value         *string `json:"value,omitempty"`
	Children      []*Node `json:"children,omitempty"`
}

// NewRoot returns the synthetic container for the top-level elements of a
// buffer of the given size.
func NewRoot(label string, size int, children []*Node) *Node {
	return &Node{
		Label:         label,
		TagClass:      ClassRoot,
		IsConstructed: true,
		Length:        size,
		ByteLength:    size,
		Children:      children,
	}
}

// Tag returns the tag of n.
func (n *Node) Tag() Tag {
	return Tag{n.TagClass, n.TagNumber}
}

// IsRoot reports whether n is a synthetic root container.
func (n *Node) IsRoot() bool {
	return n.TagClass == ClassRoot
}

// ValueString returns the value of n or the empty string if n has no value.
func (n *Node) ValueString() string {
	if n.Value == nil {
		return ""
	}
	return *n.Value
}

// SetValue sets the value of n to s.
func (n *Node) SetValue(s string) {
	n.Value = &s
}

// Walk traverses the tree rooted at n in pre-order, calling fn for each node
// with its depth below n. If fn returns false, the children of that node are
// skipped.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Find returns the innermost node whose span contains the byte at offset, or nil
// if offset is outside the span of n.
func (n *Node) Find(offset int) *Node {
	if offset < n.ByteOffset || offset >= n.ByteOffset+n.ByteLength {
		return nil
	}
	for _, c := range n.Children {
		if found := c.Find(offset); found != nil {
			return found
		}
	}
	return n
}
