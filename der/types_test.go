// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	encoding_asn1 "encoding/asn1"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"codello.dev/dertree"
	"codello.dev/dertree/internal/testenv"
)

func TestRender(t *testing.T) {
	tests := map[string]struct {
		tag      uint
		content  []byte
		lossless bool
		want     string
	}{
		"Boolean/True":        {dertree.TagBoolean, []byte{0xff}, false, "TRUE"},
		"Boolean/NonCanon":    {dertree.TagBoolean, []byte{0x01}, false, "TRUE"},
		"Boolean/False":       {dertree.TagBoolean, []byte{0x00}, false, "FALSE"},
		"Boolean/Empty":       {dertree.TagBoolean, nil, false, "Invalid BOOLEAN"},
		"Integer/One":         {dertree.TagInteger, []byte{0x01}, false, "1"},
		"Integer/MinusOne":    {dertree.TagInteger, []byte{0xff}, false, "-1"},
		"Integer/128":         {dertree.TagInteger, []byte{0x00, 0x80}, false, "128"},
		"Integer/-128":        {dertree.TagInteger, []byte{0x80}, false, "-128"},
		"Integer/Empty":       {dertree.TagInteger, nil, false, "0"},
		"Integer/MaxInt64":    {dertree.TagInteger, bytesFromHex("7FFFFFFFFFFFFFFF"), false, "9223372036854775807"},
		"Integer/MinInt64":    {dertree.TagInteger, bytesFromHex("8000000000000000"), false, "-9223372036854775808"},
		"Integer/Large":       {dertree.TagInteger, bytesFromHex("010203040506070809"), false, "0x010203040506070809"},
		"Enumerated":          {dertree.TagEnumerated, []byte{0x02}, false, "2"},
		"BitString/Empty":     {dertree.TagBitString, nil, false, ""},
		"BitString/NoData":    {dertree.TagBitString, []byte{0x00}, false, "(unused bits: 0)"},
		"BitString/Data":      {dertree.TagBitString, bytesFromHex("066E5DC0"), false, "011011100101110111 (unused bits: 6)"},
		"OctetString/Text":    {dertree.TagOctetString, []byte("hello\n"), false, "\"hello\n\""},
		"OctetString/Binary":  {dertree.TagOctetString, []byte{0x00, 0xff}, false, "[2 bytes] 00 FF"},
		"OctetString/Preview": {dertree.TagOctetString, make([]byte, 20), false, "[20 bytes]" + strings.Repeat(" 00", 16)},
		"OctetString/Full":    {dertree.TagOctetString, make([]byte, 20), true, "[20 bytes]" + strings.Repeat(" 00", 20)},
		"Null":                {dertree.TagNull, nil, false, "NULL"},
		"OID":                 {dertree.TagOID, bytesFromHex("2A864886F70D"), false, "1.2.840.113549"},
		"OID/Joint":           {dertree.TagOID, bytesFromHex("8837"), false, "2.999"},
		"OID/Empty":           {dertree.TagOID, nil, false, ""},
		"OID/Truncated":       {dertree.TagOID, bytesFromHex("2A86"), false, "[Invalid OBJECT IDENTIFIER: 2 bytes]"},
		"RelativeOID":         {dertree.TagRelativeOID, bytesFromHex("C27B0302"), false, "8571.3.2"},
		"RelativeOID/Empty":   {dertree.TagRelativeOID, nil, false, ""},
		"UTF8String":          {dertree.TagUTF8String, []byte("hé"), false, `"hé"`},
		"UTF8String/Invalid":  {dertree.TagUTF8String, []byte{0xff}, false, "[Invalid UTF-8: 1 bytes]"},
		"PrintableString":     {dertree.TagPrintableString, []byte("AB"), false, `"AB"`},
		"UTCTime":             {dertree.TagUTCTime, []byte("250101000000Z"), false, `"250101000000Z"`},
		"BMPString":           {dertree.TagBMPString, bytesFromHex("00480069"), false, `"Hi"`},
		"BMPString/Surrogate": {dertree.TagBMPString, bytesFromHex("D83DDE00"), false, `"😀"`},
		"BMPString/Odd":       {dertree.TagBMPString, []byte{0x00}, false, "[Invalid BMPString: 1 bytes]"},
		"UniversalString":     {dertree.TagUniversalString, bytesFromHex("00000048"), false, `"H"`},
		"Unknown":             {7, []byte{0xab, 0xcd}, false, "[2 bytes]"},
		"Unknown/Lossless":    {7, []byte{0xab, 0xcd}, true, "0xABCD"},
		"Unknown/LongForm":    {31, []byte{0x05}, false, "[1 bytes]"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			o := newOptions([]Option{WithLossless(tt.lossless)})
			if got := lookup(tt.tag).render(o, tt.content); got != tt.want {
				t.Errorf("render(% X) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		tag     uint
		value   string
		want    []byte
		wantErr error
	}{
		"Boolean/True":             {dertree.TagBoolean, "TRUE", []byte{0xff}, nil},
		"Boolean/False":            {dertree.TagBoolean, " false ", []byte{0x00}, nil},
		"Boolean/Hex":              {dertree.TagBoolean, "0xFF", []byte{0xff}, nil},
		"Boolean/Invalid":          {dertree.TagBoolean, "yes", nil, ErrInvalidValue},
		"Integer/Zero":             {dertree.TagInteger, "0", []byte{0x00}, nil},
		"Integer/128":              {dertree.TagInteger, "128", []byte{0x00, 0x80}, nil},
		"Integer/-129":             {dertree.TagInteger, "-129", []byte{0xff, 0x7f}, nil},
		"Integer/Hex":              {dertree.TagInteger, "0x0102", []byte{0x01, 0x02}, nil},
		"Integer/Invalid":          {dertree.TagInteger, "12x", nil, ErrInvalidValue},
		"Integer/OddHex":           {dertree.TagInteger, "0xABC", nil, ErrInvalidValue},
		"BitString/Empty":          {dertree.TagBitString, "", []byte{}, nil},
		"BitString/EmptyWord":      {dertree.TagBitString, "Empty", []byte{}, nil},
		"BitString/NoData":         {dertree.TagBitString, "(unused bits: 0)", []byte{0x00}, nil},
		"BitString/Data":           {dertree.TagBitString, "011011100101110111 (unused bits: 6)", bytesFromHex("066E5DC0"), nil},
		"BitString/Legacy":         {dertree.TagBitString, "3 unused bits, data: AB CD", bytesFromHex("03ABCD"), nil},
		"BitString/Misaligned":     {dertree.TagBitString, "0110 (unused bits: 3)", nil, ErrInvalidValue},
		"BitString/TooManyUnused":  {dertree.TagBitString, "(unused bits: 8)", nil, ErrInvalidValue},
		"BitString/NoSuffix":       {dertree.TagBitString, "101", nil, ErrInvalidValue},
		"OctetString/Placeholder":  {dertree.TagOctetString, "[2 bytes] 00 FF", []byte{0x00, 0xff}, nil},
		"OctetString/Preview":      {dertree.TagOctetString, "[3 bytes] 00 FF", nil, ErrInvalidLength},
		"OctetString/Quoted":       {dertree.TagOctetString, `"hello"`, []byte("hello"), nil},
		"OctetString/Hex":          {dertree.TagOctetString, "DE:AD:BE:EF", bytesFromHex("DEADBEEF"), nil},
		"OctetString/Raw":          {dertree.TagOctetString, "hello world", []byte("hello world"), nil},
		"Null":                     {dertree.TagNull, "anything", []byte{}, nil},
		"OID":                      {dertree.TagOID, "1.2.840.113549", bytesFromHex("2A864886F70D"), nil},
		"OID/Annotated":            {dertree.TagOID, "1.2.840.113549.1.1.1 (rsaEncryption)", bytesFromHex("2A864886F70D010101"), nil},
		"OID/Prefixed":             {dertree.TagOID, "OID: 2.5.4.3", bytesFromHex("550403"), nil},
		"OID/Joint":                {dertree.TagOID, "2.999", bytesFromHex("8837"), nil},
		"OID/SingleArc":            {dertree.TagOID, "1", nil, ErrInvalidValue},
		"OID/InvalidRoot":          {dertree.TagOID, "3.1", nil, ErrInvalidValue},
		"OID/Empty":                {dertree.TagOID, "", nil, ErrInvalidValue},
		"RelativeOID":              {dertree.TagRelativeOID, "8571.3.2", bytesFromHex("C27B0302"), nil},
		"RelativeOID/Empty":        {dertree.TagRelativeOID, "", []byte{}, nil},
		"RelativeOID/Invalid":      {dertree.TagRelativeOID, "a.b", nil, ErrInvalidValue},
		"UTF8String":               {dertree.TagUTF8String, `"hé"`, []byte("hé"), nil},
		"UTF8String/Unquoted":      {dertree.TagUTF8String, "  plain ", []byte("plain"), nil},
		"UTF8String/Placeholder":   {dertree.TagUTF8String, "[Invalid UTF-8: 1 bytes]", nil, ErrInvalidValue},
		"UTCTime/Legacy":           {dertree.TagUTCTime, "Time: 250101000000Z", []byte("250101000000Z"), nil},
		"GeneralizedTime":          {dertree.TagGeneralizedTime, `"20250101000000Z"`, []byte("20250101000000Z"), nil},
		"BMPString":                {dertree.TagBMPString, `"Hi"`, bytesFromHex("00480069"), nil},
		"BMPString/Surrogate":      {dertree.TagBMPString, `"😀"`, bytesFromHex("D83DDE00"), nil},
		"UniversalString":          {dertree.TagUniversalString, `"H"`, bytesFromHex("00000048"), nil},
		"Unknown/Hex":              {7, "0xABCD", []byte{0xab, 0xcd}, nil},
		"Unknown/Placeholder":      {7, "[2 bytes]", nil, ErrInvalidValue},
		"Unknown/Raw":              {7, "raw", []byte("raw"), nil},
		"Unknown/OddHex":           {7, "0xABC", nil, ErrInvalidValue},
		"PrintableString/Verbatim": {dertree.TagPrintableString, `"a "quoted" word"`, []byte(`a "quoted" word`), nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert, _ := makeAR(t)

			got, err := lookup(tt.tag).parse(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(err, tt.wantErr)
				return
			}
			assert.NoError(err)
			testenv.BytesEqual(assert, tt.want, got)
		})
	}
}

func TestInteger_RoundTrip(t *testing.T) {
	tests := map[string]struct {
		value string
		want  []byte
	}{
		"0":    {"0", []byte{0x00}},
		"127":  {"127", []byte{0x7f}},
		"128":  {"128", []byte{0x00, 0x80}},
		"255":  {"255", []byte{0x00, 0xff}},
		"256":  {"256", []byte{0x01, 0x00}},
		"-1":   {"-1", []byte{0xff}},
		"-128": {"-128", []byte{0x80}},
		"-129": {"-129", []byte{0xff, 0x7f}},
		"-256": {"-256", []byte{0xff, 0x00}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert, require := makeAR(t)

			got, err := parseInteger(tt.value)
			require.NoError(err)
			assert.Equal(tt.want, got)
			assert.Equal(tt.value, renderInteger(nil, got))

			// The encoding must be accepted as minimal by an independent parser.
			var b cryptobyte.Builder
			b.AddASN1(cryptobyte_asn1.INTEGER, func(b *cryptobyte.Builder) { b.AddBytes(got) })
			s := cryptobyte.String(b.BytesOrPanic())
			n := new(big.Int)
			require.True(s.ReadASN1Integer(n))
			assert.Equal(tt.value, n.String())
		})
	}
}

func TestInteger_Large(t *testing.T) {
	assert, require := makeAR(t)

	n, _ := new(big.Int).SetString("-170141183460469231731687303715884105729", 10)
	var b cryptobyte.Builder
	b.AddASN1BigInt(n)
	want := b.BytesOrPanic()[2:]

	got, err := parseInteger(n.String())
	require.NoError(err)
	assert.Equal(want, got)
	assert.Equal("0x"+strings.ToUpper(hex.EncodeToString(want)), renderInteger(nil, got))
}

func TestObjectIdentifier_RoundTrip(t *testing.T) {
	tests := map[string]string{
		"Arc0":     "1.2.0",
		"Arc127":   "1.2.127",
		"Arc128":   "1.2.128",
		"Arc16383": "1.2.16383",
		"Arc16384": "1.2.16384",
		"RSA":      "1.2.840.113549.1.1.1",
		"Joint":    "2.999.3",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			assert, require := makeAR(t)

			content, err := parseOID(value)
			require.NoError(err)
			assert.Equal(value, renderOID(newOptions(nil), content))

			var b cryptobyte.Builder
			b.AddASN1(cryptobyte_asn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) { b.AddBytes(content) })
			s := cryptobyte.String(b.BytesOrPanic())
			var oid encoding_asn1.ObjectIdentifier
			require.True(s.ReadASN1ObjectIdentifier(&oid))
			assert.Equal(value, oid.String())
		})
	}
}

func TestBitString_RoundTrip(t *testing.T) {
	for _, content := range [][]byte{
		nil,
		{0x00},
		{0x00, 0xa5},
		{0x07, 0x80},
		bytesFromHex("066E5DC0"),
	} {
		assert, require := makeAR(t)
		got, err := parseBitString(renderBitString(nil, content))
		require.NoError(err)
		testenv.BytesEqual(assert, content, got)
	}
}
