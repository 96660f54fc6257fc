// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dertree defines a human-inspectable tree representation of DER
// encoded ASN.1 data. Every TLV element of the input becomes a [Node] that
// records its tag, its exact position in the original buffer and either a
// textual rendering of its content or its children.
//
// The tree is the wire contract between the codec and its surroundings. It
// marshals into JSON with the field names label, tagClass, tagNumber,
// isConstructed, length, byteOffset, byteLength, value and children. A tree may
// be edited by hand before it is encoded again. Encoding relies solely on the
// tag class, tag number, constructed flag and the value or children of each
// node.
//
// Decoding and encoding are implemented in the der subpackage. The tlv
// subpackage implements the header syntax shared by both directions.
package dertree

import (
	"strconv"
	"strings"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
type Tag struct {
	Class  Class
	Number uint
}

// Class holds the class part of an ASN.1 tag. The four tag classes are
// unsigned 2-bit integers. In addition, [ClassRoot] marks the synthetic
// container at the root of a decoded tree.
//
//go:generate stringer -type=Class -trimprefix=Class -linecomment
type Class uint8

// IsValid reports whether c can be encoded in an identifier octet.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants.
const (
	ClassUniversal       Class = iota
	ClassApplication
	ClassContextSpecific // Context
	ClassPrivate
	ClassRoot
)

// MarshalText implements [encoding.TextMarshaler].
func (c Class) MarshalText() ([]byte, error) {
	if c > ClassRoot {
		return nil, &InvalidClassError{Text: c.String()}
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Matching is
// case-insensitive. The alternative spellings ContextSpecific and
// Context-Specific as well as the legacy root name PEM are recognized.
func (c *Class) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "universal":
		*c = ClassUniversal
	case "application":
		*c = ClassApplication
	case "context", "contextspecific", "context-specific":
		*c = ClassContextSpecific
	case "private":
		*c = ClassPrivate
	case "root", "pem":
		*c = ClassRoot
	default:
		return &InvalidClassError{Text: string(text)}
	}
	return nil
}

// InvalidClassError reports a tag class name that cannot be interpreted.
type InvalidClassError struct {
	Text string
}

func (e *InvalidClassError) Error() string {
	return "dertree: unknown tag class " + strconv.Quote(e.Text)
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// MaxTagNumber is the largest tag number that fits into a single identifier
// octet. The value 31 in the low five bits of an identifier octet announces a
// long-form tag number, which is not supported.
const MaxTagNumber = 30

// TagReserved is a reserved tag number in the [ClassUniversal] namespace to be
// used by encoding rules. This assignment is defined in Rec. ITU-T X.680,
// Section 8, Table 1.
const TagReserved = 0

// These are the ASN.1 tag numbers that fit into the short form of an identifier
// octet in the [ClassUniversal] namespace. These assignments are defined in Rec.
// ITU-T X.680, Section 8, Table 1.
const (
	TagBoolean          uint = 1
	TagInteger          uint = 2
	TagBitString        uint = 3
	TagOctetString      uint = 4
	TagNull             uint = 5
	TagOID              uint = 6
	TagObjectDescriptor uint = 7
	TagExternal         uint = 8
	TagReal             uint = 9
	TagEnumerated       uint = 10
	TagEmbeddedPDV      uint = 11
	TagUTF8String       uint = 12
	TagRelativeOID      uint = 13
	TagTime             uint = 14
	TagSequence         uint = 16
	TagSet              uint = 17
	TagNumericString    uint = 18
	TagPrintableString  uint = 19
	TagTeletexString    uint = 20
	TagT61String             = TagTeletexString
	TagVideotexString   uint = 21
	TagIA5String        uint = 22
	TagUTCTime          uint = 23
	TagGeneralizedTime  uint = 24
	TagGraphicString    uint = 25
	TagVisibleString    uint = 26
	TagISO646String          = TagVisibleString
	TagGeneralString    uint = 27
	TagUniversalString  uint = 28
	TagCharacterString  uint = 29
	TagBMPString        uint = 30
)

// universalNames holds the display names of universal tag numbers. Numbers
// without an entry are displayed as Unknown.
var universalNames = [...]string{
	TagBoolean:          "BOOLEAN",
	TagInteger:          "INTEGER",
	TagBitString:        "BIT STRING",
	TagOctetString:      "OCTET STRING",
	TagNull:             "NULL",
	TagOID:              "OBJECT IDENTIFIER",
	TagObjectDescriptor: "ObjectDescriptor",
	TagExternal:         "EXTERNAL",
	TagReal:             "REAL",
	TagEnumerated:       "ENUMERATED",
	TagEmbeddedPDV:      "EMBEDDED PDV",
	TagUTF8String:       "UTF8String",
	TagRelativeOID:      "RELATIVE-OID",
	TagSequence:         "SEQUENCE",
	TagSet:              "SET",
	TagNumericString:    "NumericString",
	TagPrintableString:  "PrintableString",
	TagTeletexString:    "TeletexString",
	TagVideotexString:   "VideotexString",
	TagIA5String:        "IA5String",
	TagUTCTime:          "UTCTime",
	TagGeneralizedTime:  "GeneralizedTime",
	TagGraphicString:    "GraphicString",
	TagVisibleString:    "VisibleString",
	TagGeneralString:    "GeneralString",
	TagUniversalString:  "UniversalString",
	TagCharacterString:  "CHARACTER STRING",
	TagBMPString:        "BMPString",
}

// UniversalName returns the display name of the universal tag number n, or
// "Unknown" if n has no well-known name.
func UniversalName(n uint) string {
	if n < uint(len(universalNames)) && universalNames[n] != "" {
		return universalNames[n]
	}
	return "Unknown"
}

// Label returns the display label of an element with tag t. Universal tags are
// labeled with their type name and number, e.g. "INTEGER (Tag 2)". Tags of other
// classes are labeled with the class in upper case, e.g. "[CONTEXT] Tag 0".
func Label(t Tag) string {
	n := strconv.FormatUint(uint64(t.Number), 10)
	if t.Class == ClassUniversal {
		return UniversalName(t.Number) + " (Tag " + n + ")"
	}
	return "[" + strings.ToUpper(t.Class.String()) + "] Tag " + n
}
