// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"fmt"
	"strconv"

	"codello.dev/dertree"
)

// ErrorKind classifies an [EncodeError].
//
//go:generate stringer -type=ErrorKind
type ErrorKind uint8

// Kinds of encoding errors.
const (
	InvalidValue    ErrorKind = iota // value text does not match the grammar of its tag
	InvalidLength                    // value text disagrees with its declared size
	InvalidTag                       // tag class cannot be encoded
	UnsupportedType                  // tag number cannot be encoded
)

var (
	// ErrInvalidValue matches an [EncodeError] of kind [InvalidValue].
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidLength matches an [EncodeError] of kind [InvalidLength].
	ErrInvalidLength = errors.New("invalid length")
	// ErrInvalidTag matches an [EncodeError] of kind [InvalidTag].
	ErrInvalidTag = errors.New("invalid tag")
	// ErrUnsupportedType matches an [EncodeError] of kind [UnsupportedType].
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrTooDeep indicates that elements are nested more deeply than allowed.
	ErrTooDeep = errors.New("too deeply nested")
)

// EncodeError reports a node that cannot be encoded. An EncodeError matches
// the sentinel error of its kind, e.g. errors.Is(err, ErrInvalidValue).
type EncodeError struct {
	Kind  ErrorKind
	Tag   dertree.Tag // tag of the offending node
	Value string      // offending value text, if any
	Msg   string      // description of the expected grammar
	Err   error       // underlying error, if any
}

func (e *EncodeError) Error() string {
	s := "der: " + e.Kind.String() + " for " + e.Tag.String()
	if e.Value != "" {
		s += " value " + strconv.Quote(e.Value)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel error of the kind of e.
func (e *EncodeError) Is(target error) bool {
	switch target {
	case ErrInvalidValue:
		return e.Kind == InvalidValue
	case ErrInvalidLength:
		return e.Kind == InvalidLength
	case ErrInvalidTag:
		return e.Kind == InvalidTag
	case ErrUnsupportedType:
		return e.Kind == UnsupportedType
	}
	return false
}

// invalidValue creates an error of kind InvalidValue. The tag and value are
// filled in by the encoder.
func invalidValue(format string, args ...any) *EncodeError {
	return &EncodeError{Kind: InvalidValue, Msg: fmt.Sprintf(format, args...)}
}

func invalidLength(format string, args ...any) *EncodeError {
	return &EncodeError{Kind: InvalidLength, Msg: fmt.Sprintf(format, args...)}
}
