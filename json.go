// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dertree

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"
)

//go:embed node.schema.json
var schemaJSON []byte

var nodeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// SchemaError describes one violation of the node schema.
type SchemaError struct {
	Field       string // path of the offending field, e.g. "children.0.tagNumber"
	Description string
}

func (e *SchemaError) Error() string {
	return "dertree: " + e.Field + ": " + e.Description
}

// ParseJSON parses the JSON representation of a tree. The document is
// validated against the node schema first. All violations are reported
// together; use [multierr.Errors] to inspect them individually.
func ParseJSON(data []byte) (*Node, error) {
	schema, err := nodeSchema()
	if err != nil {
		return nil, fmt.Errorf("dertree: node schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("dertree: invalid JSON: %w", err)
	}
	if !result.Valid() {
		var errs []error
		for _, desc := range result.Errors() {
			errs = append(errs, &SchemaError{Field: desc.Field(), Description: desc.Description()})
		}
		return nil, multierr.Combine(errs...)
	}

	var n Node
	if err = json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("dertree: %w", err)
	}
	return &n, nil
}

// MarshalIndent returns the JSON representation of the tree rooted at n. Each
// nesting level is indented by indent.
func MarshalIndent(n *Node, indent string) ([]byte, error) {
	return json.MarshalIndent(n, "", indent)
}
