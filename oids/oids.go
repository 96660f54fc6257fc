// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oids resolves object identifiers to display names.
//
// A [Registry] can be passed to der.WithNames to annotate decoded OBJECT
// IDENTIFIER values:
//
//	root, err := der.Decode(buf, der.WithNames(oids.Default()))
package oids

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"codello.dev/dertree"
)

// Registry maps object identifiers in dotted notation to names. The zero value
// is an empty registry. A Registry must not be modified while it is used by
// other goroutines.
type Registry struct {
	names map[string]string
}

// New returns a registry containing the given names.
func New(names map[string]string) (*Registry, error) {
	r := &Registry{}
	return r, r.Merge(names)
}

// Default returns a new registry of common PKIX and PKCS object identifiers.
func Default() *Registry {
	return &Registry{names: maps.Clone(defaultNames)}
}

// Name returns the name of the dotted object identifier oid.
func (r *Registry) Name(oid string) (string, bool) {
	if r == nil {
		return "", false
	}
	name, ok := r.names[oid]
	return name, ok
}

// Len returns the number of names in r.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// OIDs returns the registered object identifiers in ascending arc order.
func (r *Registry) OIDs() []string {
	if r == nil {
		return nil
	}
	keys := slices.Collect(maps.Keys(r.names))
	slices.SortFunc(keys, func(a, b string) int {
		x, _ := dertree.ParseObjectIdentifier(a)
		y, _ := dertree.ParseObjectIdentifier(b)
		return slices.Compare(x, y)
	})
	return keys
}

// Merge adds names to r, replacing existing entries with the same object
// identifier. Keys must be valid object identifiers and names must not be
// empty. Invalid entries are skipped and reported together.
func (r *Registry) Merge(names map[string]string) error {
	if r.names == nil {
		r.names = make(map[string]string, len(names))
	}
	var errs error
	for oid, name := range names {
		parsed, err := dertree.ParseObjectIdentifier(oid)
		switch {
		case err != nil:
			errs = multierr.Append(errs, fmt.Errorf("oids: %q: %w", oid, err))
			continue
		case name == "":
			errs = multierr.Append(errs, fmt.Errorf("oids: %q: empty name", oid))
			continue
		}
		// store the canonical spelling so that lookups by rendered value succeed
		r.names[parsed.String()] = name
	}
	return errs
}
