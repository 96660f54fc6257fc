// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"encoding/hex"
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"codello.dev/dertree"
	"codello.dev/dertree/internal/vlq"
)

// A grammar converts the content octets of a primitive element into a display
// string and back. For content in canonical DER, parse(render(content)) ==
// content.
type grammar struct {
	render func(o *options, content []byte) string
	parse  func(value string) ([]byte, error)
}

// grammars maps universal tag numbers to their grammar. Tag numbers without an
// entry use the unknownGrammar.
var grammars = [...]grammar{
	dertree.TagBoolean:         {renderBoolean, parseBoolean},
	dertree.TagInteger:         {renderInteger, parseInteger},
	dertree.TagBitString:       {renderBitString, parseBitString},
	dertree.TagOctetString:     {renderOctetString, parseOctetString},
	dertree.TagNull:            {renderNull, parseNull},
	dertree.TagOID:             {renderOID, parseOID},
	dertree.TagEnumerated:      {renderInteger, parseInteger},
	dertree.TagUTF8String:      textGrammar("UTF-8", utf8Codec, false),
	dertree.TagRelativeOID:     {renderRelativeOID, parseRelativeOID},
	dertree.TagNumericString:   textGrammar("NumericString", utf8Codec, false),
	dertree.TagPrintableString: textGrammar("PrintableString", utf8Codec, false),
	dertree.TagTeletexString:   textGrammar("TeletexString", utf8Codec, false),
	dertree.TagVideotexString:  textGrammar("VideotexString", utf8Codec, false),
	dertree.TagIA5String:       textGrammar("IA5String", utf8Codec, false),
	dertree.TagUTCTime:         textGrammar("UTCTime", utf8Codec, true),
	dertree.TagGeneralizedTime: textGrammar("GeneralizedTime", utf8Codec, true),
	dertree.TagGraphicString:   textGrammar("GraphicString", utf8Codec, false),
	dertree.TagVisibleString:   textGrammar("VisibleString", utf8Codec, false),
	dertree.TagGeneralString:   textGrammar("GeneralString", utf8Codec, false),
	dertree.TagUniversalString: textGrammar("UniversalString", utf32Codec, false),
	dertree.TagBMPString:       textGrammar("BMPString", utf16Codec, false),
}

var unknownGrammar = grammar{renderUnknown, parseUnknown}

// lookup returns the grammar for tag number n.
func lookup(n uint) grammar {
	if n < uint(len(grammars)) && grammars[n].render != nil {
		return grammars[n]
	}
	return unknownGrammar
}

//region [UNIVERSAL 1] BOOLEAN

// renderBoolean renders "TRUE" or "FALSE" depending on the first content octet.
// Empty content renders as "Invalid BOOLEAN".
func renderBoolean(_ *options, content []byte) string {
	switch {
	case len(content) == 0:
		return "Invalid BOOLEAN"
	case content[0] == 0:
		return "FALSE"
	default:
		return "TRUE"
	}
}

// parseBoolean accepts "true" and "0xff" as TRUE and "false" and "0x00" as
// FALSE, ignoring case and surrounding space.
func parseBoolean(value string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "0xff":
		return []byte{0xff}, nil
	case "false", "0x00":
		return []byte{0x00}, nil
	}
	return nil, invalidValue("want TRUE, FALSE, 0xFF or 0x00")
}

//endregion

//region [UNIVERSAL 2] INTEGER

// maxDecimalOctets is the longest integer content rendered in decimal.
const maxDecimalOctets = 8

// renderInteger renders up to 8 content octets as a signed decimal number.
// Longer content is rendered as "0x" followed by the content octets in upper
// case hex. Empty content renders as "0".
//
// ENUMERATED values use the same grammar.
func renderInteger(_ *options, content []byte) string {
	if len(content) == 0 {
		return "0"
	}
	if len(content) > maxDecimalOctets {
		return "0x" + strings.ToUpper(hex.EncodeToString(content))
	}
	var v int64
	if content[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range content {
		v = v<<8 | int64(b)
	}
	return strconv.FormatInt(v, 10)
}

// parseInteger accepts "0x" followed by the hex content octets, or a signed
// decimal number of arbitrary size. Decimal numbers are encoded in minimal
// two's complement form.
func parseInteger(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if rest, ok := cutHexPrefix(value); ok {
		b, err := decodeHex(rest)
		if err != nil {
			return nil, invalidValue("want hex digits after 0x: %v", err)
		}
		return b, nil
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, invalidValue("want a decimal integer or 0x followed by hex digits")
	}
	return appendSigned(nil, n), nil
}

var bigOne = big.NewInt(1)

// appendSigned appends the minimal big-endian two's complement encoding of n to
// b.
func appendSigned(b []byte, n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return append(b, 0x00)
	case 1:
		bs := n.Bytes()
		if bs[0]&0x80 != 0 {
			b = append(b, 0x00)
		}
		return append(b, bs...)
	}
	// The two's complement of n is the bitwise complement of -n-1.
	m := new(big.Int).Neg(n)
	m.Sub(m, bigOne)
	bs := m.Bytes()
	for i := range bs {
		bs[i] ^= 0xff
	}
	if len(bs) == 0 || bs[0]&0x80 == 0 {
		b = append(b, 0xff)
	}
	return append(b, bs...)
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// renderBitString renders the bits of a BIT STRING followed by the number of
// unused bits, e.g. "011011100101110111 (unused bits: 6)". The unused bits of
// the final octet are omitted. Without data octets only "(unused bits: N)" is
// rendered. Empty content renders as the empty string.
func renderBitString(_ *options, content []byte) string {
	if len(content) == 0 {
		return ""
	}
	unused := content[0]
	suffix := "(unused bits: " + strconv.Itoa(int(unused)) + ")"
	data := content[1:]
	if len(data) == 0 {
		return suffix
	}
	s := dertree.BitString{Bytes: data, BitLength: 8*len(data) - min(int(unused), 8)}
	return s.String() + " " + suffix
}

const legacyBitStringSep = " unused bits, data:"

// parseBitString accepts
//
//   - the empty string for empty content,
//   - "<bits> (unused bits: N)" and "(unused bits: N)" where the number of bits
//     plus N is a multiple of 8 and N is at most 7,
//   - "N unused bits, data: <hex>" and "Empty" as produced by earlier
//     renderers.
func parseBitString(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "Empty" {
		return []byte{}, nil
	}
	if n, data, ok := strings.Cut(value, legacyBitStringSep); ok {
		unused, err := parseUnusedBits(n)
		if err != nil {
			return nil, err
		}
		b, err := decodeHex(data)
		if err != nil {
			return nil, invalidValue("want hex digits after %q: %v", "data:", err)
		}
		return append([]byte{unused}, b...), nil
	}

	i := strings.LastIndex(value, "(unused bits:")
	if i < 0 || !strings.HasSuffix(value, ")") {
		return nil, invalidValue(`want "<bits> (unused bits: N)" or "N unused bits, data: <hex>"`)
	}
	unused, err := parseUnusedBits(value[i+len("(unused bits:") : len(value)-1])
	if err != nil {
		return nil, err
	}
	bits, err := dertree.ParseBitString(strings.TrimSpace(value[:i]))
	if err != nil {
		return nil, invalidValue("%v", err)
	}
	if bits.Len() > 0 && (bits.Len()+int(unused))%8 != 0 {
		return nil, invalidValue("%d bits and %d unused bits do not fill whole octets", bits.Len(), unused)
	}
	return append([]byte{unused}, bits.Bytes...), nil
}

func parseUnusedBits(s string) (byte, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil || n > 7 {
		return 0, invalidValue("want between 0 and 7 unused bits")
	}
	return byte(n), nil
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

const hexDigits = "0123456789ABCDEF"

// previewOctets is the number of octets shown by the lossy OCTET STRING
// rendering.
const previewOctets = 16

// renderOctetString renders content that is valid UTF-8 without control
// characters other than tab, carriage return and line feed as a quoted string.
// Any other content is rendered as "[N bytes] " followed by the first 16
// octets as space separated upper case hex pairs. With lossless rendering all
// octets are shown.
func renderOctetString(o *options, content []byte) string {
	if isText(content) {
		return `"` + string(content) + `"`
	}
	shown := content
	if !o.lossless && len(shown) > previewOctets {
		shown = shown[:previewOctets]
	}
	var sb strings.Builder
	sb.Grow(12 + 3*len(shown))
	sb.WriteString(bytesPlaceholder(len(content)))
	for _, b := range shown {
		sb.WriteByte(' ')
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
	}
	return sb.String()
}

// isText reports whether b is valid UTF-8 without control characters other
// than tab, carriage return and line feed.
func isText(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return false
		}
	}
	return true
}

// parseOctetString accepts, in order of precedence,
//
//   - "[N bytes] <hex>" where the hex digits encode exactly N octets,
//   - a quoted string whose content is used verbatim,
//   - hex digits, optionally separated by spaces or colons,
//   - any other text, which is used verbatim.
func parseOctetString(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if n, rest, ok := cutBytesPlaceholder(trimmed); ok {
		b, err := decodeHex(rest)
		if err != nil {
			return nil, invalidValue("want hex digits after [%d bytes]: %v", n, err)
		}
		if len(b) != n {
			return nil, invalidLength("value shows %d of %d bytes, decode with lossless rendering to edit it", len(b), n)
		}
		return b, nil
	}
	if s, ok := unquote(trimmed); ok {
		return []byte(s), nil
	}
	if b, err := decodeHex(trimmed); err == nil {
		return b, nil
	}
	return []byte(value), nil
}

//endregion

//region [UNIVERSAL 5] NULL

// renderNull renders "NULL" regardless of the content.
func renderNull(*options, []byte) string {
	return "NULL"
}

// parseNull ignores the value and produces empty content.
func parseNull(string) ([]byte, error) {
	return []byte{}, nil
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// renderOID renders the dot-separated arcs of an object identifier, e.g.
// "1.2.840.113549". If the identifier has a known name, the name is appended in
// parentheses. Empty content renders as the empty string. Content that does not
// consist of complete arcs renders as "[Invalid OBJECT IDENTIFIER: N bytes]".
func renderOID(o *options, content []byte) string {
	if len(content) == 0 {
		return ""
	}
	oid, err := decodeOID(content)
	if err != nil {
		return invalidPlaceholder("OBJECT IDENTIFIER", len(content))
	}
	s := oid.String()
	if o.names != nil {
		if name, ok := o.names.Name(s); ok {
			s += " (" + name + ")"
		}
	}
	return s
}

// decodeOID decodes the arcs of an object identifier. The first subidentifier
// combines the first two arcs.
func decodeOID(content []byte) (dertree.ObjectIdentifier, error) {
	v, n, err := vlq.Decode[uint](content)
	if err != nil {
		return nil, err
	}
	oid := dertree.ObjectIdentifier{0, 0}
	if v < 80 {
		oid[0], oid[1] = v/40, v%40
	} else {
		oid[0], oid[1] = 2, v-80
	}
	arcs, err := decodeArcs(content[n:])
	return append(oid, arcs...), err
}

// decodeArcs decodes a sequence of VLQ encoded arcs.
func decodeArcs(content []byte) ([]uint, error) {
	var arcs []uint
	for len(content) > 0 {
		v, n, err := vlq.Decode[uint](content)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, v)
		content = content[n:]
	}
	return arcs, nil
}

// parseOID accepts the dotted notation of an object identifier with at least
// two arcs, optionally followed by a parenthesized annotation such as
// "(rsaEncryption)" and optionally preceded by "OID: ".
func parseOID(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimSpace(strings.TrimPrefix(value, "OID:"))
	value = stripAnnotation(value)
	oid, err := dertree.ParseObjectIdentifier(value)
	if err != nil {
		return nil, invalidValue("want dotted arcs such as 1.2.840.113549: %v", err)
	}
	if oid[1] > math.MaxUint-80 {
		return nil, invalidValue("second arc %d too large", oid[1])
	}
	b := vlq.Append(nil, oid[0]*40+oid[1])
	for _, arc := range oid[2:] {
		b = vlq.Append(b, arc)
	}
	return b, nil
}

// stripAnnotation removes a trailing parenthesized annotation from s.
func stripAnnotation(s string) string {
	if !strings.HasSuffix(s, ")") {
		return s
	}
	if i := strings.Index(s, "("); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

//endregion

//region [UNIVERSAL 13] RELATIVE-OID

// renderRelativeOID renders the dot-separated arcs of a relative object
// identifier. Empty content renders as the empty string. Content that does not
// consist of complete arcs renders as "[Invalid RELATIVE-OID: N bytes]".
func renderRelativeOID(_ *options, content []byte) string {
	arcs, err := decodeArcs(content)
	if err != nil {
		return invalidPlaceholder("RELATIVE-OID", len(content))
	}
	return dertree.RelativeOID(arcs).String()
}

// parseRelativeOID accepts the dotted notation of at least one arc. The empty
// string produces empty content.
func parseRelativeOID(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []byte{}, nil
	}
	oid, err := dertree.ParseRelativeOID(value)
	if err != nil {
		return nil, invalidValue("want dotted arcs such as 8571.3.2: %v", err)
	}
	var b []byte
	for _, arc := range oid {
		b = vlq.Append(b, arc)
	}
	return b, nil
}

//endregion

//region Character and time strings

// A textCodec converts between the content octets of a string type and Go
// strings.
type textCodec struct {
	decode func([]byte) (string, bool)
	encode func(string) []byte
}

var utf8Codec = textCodec{
	decode: func(b []byte) (string, bool) {
		return string(b), utf8.Valid(b)
	},
	encode: func(s string) []byte {
		return []byte(s)
	},
}

// utf16Codec implements the big-endian UTF-16 encoding of BMPString.
var utf16Codec = textCodec{
	decode: func(b []byte) (string, bool) {
		if len(b)%2 != 0 {
			return "", false
		}
		var sb strings.Builder
		for i := 0; i < len(b); i += 2 {
			r := rune(b[i])<<8 | rune(b[i+1])
			if utf16.IsSurrogate(r) {
				if i+3 >= len(b) {
					return "", false
				}
				r = utf16.DecodeRune(r, rune(b[i+2])<<8|rune(b[i+3]))
				if r == utf8.RuneError {
					return "", false
				}
				i += 2
			}
			sb.WriteRune(r)
		}
		return sb.String(), true
	},
	encode: func(s string) []byte {
		units := utf16.Encode([]rune(s))
		b := make([]byte, 0, 2*len(units))
		for _, u := range units {
			b = append(b, byte(u>>8), byte(u))
		}
		return b
	},
}

// utf32Codec implements the big-endian UTF-32 encoding of UniversalString.
var utf32Codec = textCodec{
	decode: func(b []byte) (string, bool) {
		if len(b)%4 != 0 {
			return "", false
		}
		var sb strings.Builder
		for i := 0; i < len(b); i += 4 {
			r := rune(uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3]))
			if !utf8.ValidRune(r) {
				return "", false
			}
			sb.WriteRune(r)
		}
		return sb.String(), true
	},
	encode: func(s string) []byte {
		b := make([]byte, 0, 4*utf8.RuneCountInString(s))
		for _, r := range s {
			b = append(b, byte(r>>24), byte(r>>16), byte(r>>8), byte(r))
		}
		return b
	},
}

// textGrammar returns the grammar of a string type. Decodable content renders
// as a quoted string. Other content renders as "[Invalid <name>: N bytes]".
//
// The parser trims surrounding space and removes one pair of surrounding
// quotes. If isTime is set, a leading "Time: " as produced by earlier renderers
// is removed as well. The invalid placeholder is rejected.
func textGrammar(name string, codec textCodec, isTime bool) grammar {
	return grammar{
		render: func(_ *options, content []byte) string {
			s, ok := codec.decode(content)
			if !ok {
				return invalidPlaceholder(name, len(content))
			}
			return `"` + s + `"`
		},
		parse: func(value string) ([]byte, error) {
			value = strings.TrimSpace(value)
			if isTime {
				value = strings.TrimSpace(strings.TrimPrefix(value, "Time:"))
			}
			if strings.HasPrefix(value, "[Invalid ") && strings.HasSuffix(value, "]") {
				return nil, invalidValue("content was not valid %s and cannot be encoded from its placeholder", name)
			}
			if s, ok := unquote(value); ok {
				value = s
			}
			return codec.encode(value), nil
		},
	}
}

//endregion

//region Unknown types

// renderUnknown renders "[N bytes]". With lossless rendering the content is
// rendered as "0x" followed by upper case hex digits instead.
func renderUnknown(o *options, content []byte) string {
	if o.lossless {
		return "0x" + strings.ToUpper(hex.EncodeToString(content))
	}
	return bytesPlaceholder(len(content))
}

// parseUnknown accepts "0x" followed by hex digits. Any other text except the
// "[N bytes]" placeholder is used verbatim.
func parseUnknown(value string) ([]byte, error) {
	if rest, ok := cutHexPrefix(value); ok {
		b, err := decodeHex(rest)
		if err != nil {
			return nil, invalidValue("want hex digits after 0x: %v", err)
		}
		return b, nil
	}
	if n, rest, ok := cutBytesPlaceholder(strings.TrimSpace(value)); ok && rest == "" {
		return nil, invalidValue("value only shows the size of %d bytes, decode with lossless rendering to edit it", n)
	}
	return []byte(value), nil
}

//endregion

//region Helpers

func bytesPlaceholder(n int) string {
	return "[" + strconv.Itoa(n) + " bytes]"
}

func invalidPlaceholder(name string, n int) string {
	return "[Invalid " + name + ": " + strconv.Itoa(n) + " bytes]"
}

// cutBytesPlaceholder parses a leading "[N bytes]" from s and returns N and the
// trimmed remainder.
func cutBytesPlaceholder(s string) (n int, rest string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, "", false
	}
	head, rest, ok := strings.Cut(s[1:], "]")
	if !ok {
		return 0, "", false
	}
	num, ok := strings.CutSuffix(head, " bytes")
	if !ok {
		return 0, "", false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, "", false
	}
	return n, strings.TrimSpace(rest), true
}

func cutHexPrefix(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return "", false
}

var errOddHex = errors.New("odd number of hex digits")

// decodeHex decodes hex digits in either case. Spaces and colons between the
// digits are ignored.
func decodeHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == ':' {
			return -1
		}
		return r
	}, s)
	if len(s)%2 != 0 {
		return nil, errOddHex
	}
	return hex.DecodeString(s)
}

// unquote removes one pair of surrounding double quotes from s.
func unquote(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], true
	}
	return s, false
}

//endregion
