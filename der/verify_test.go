// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	encoding_asn1 "encoding/asn1"
	"errors"
	"math/big"
	"testing"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"codello.dev/dertree"
	"codello.dev/dertree/tlv"
)

// certificateLike builds a structure resembling an X.509 certificate.
func certificateLike() []byte {
	serial, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	notBefore := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2055, 1, 1, 0, 0, 0, 0, time.UTC)
	signature := make([]byte, 40)
	for i := range signature {
		signature[i] = byte(i)
	}

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1(cryptobyte_asn1.Tag(0).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddASN1Int64(2)
			})
			b.AddASN1BigInt(serial)
			b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11})
				b.AddASN1NULL()
			})
			b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1(cryptobyte_asn1.SET, func(b *cryptobyte.Builder) {
					b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
						b.AddASN1ObjectIdentifier(encoding_asn1.ObjectIdentifier{2, 5, 4, 3})
						b.AddASN1(cryptobyte_asn1.UTF8String, func(b *cryptobyte.Builder) {
							b.AddBytes([]byte("Example CA"))
						})
					})
				})
			})
			b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1UTCTime(notBefore)
				b.AddASN1GeneralizedTime(notAfter)
			})
			b.AddASN1(cryptobyte_asn1.Tag(3).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
				b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
						b.AddASN1ObjectIdentifier(encoding_asn1.ObjectIdentifier{2, 5, 29, 19})
						b.AddASN1Boolean(true)
						b.AddASN1OctetString([]byte{0x30, 0x03, 0x01, 0x01, 0xff})
					})
				})
			})
		})
		b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(encoding_asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11})
			b.AddASN1NULL()
		})
		b.AddASN1BitString(signature)
	})
	return b.BytesOrPanic()
}

func TestVerify(t *testing.T) {
	assert, require := makeAR(t)

	cert := certificateLike()
	require.NoError(Verify(cert, WithLossless(true)))

	root, err := Decode(cert, WithLossless(true))
	require.NoError(err)
	encoded, err := Encode(root)
	require.NoError(err)
	assert.Equal(cert, encoded)
}

func TestVerify_Lossy(t *testing.T) {
	assert, _ := makeAR(t)

	// A long binary OCTET STRING only shows a preview by default.
	buf := append(bytesFromHex("0414"), make([]byte, 20)...)
	err := Verify(buf)
	var mismatch *MismatchError
	if assert.True(errors.As(err, &mismatch)) {
		assert.Equal(0, mismatch.Offset)
		assert.ErrorIs(mismatch, ErrInvalidLength)
	}
	assert.NoError(Verify(buf, WithLossless(true)))
}

func TestVerify_ContextPrimitive(t *testing.T) {
	assert, require := makeAR(t)

	// The content of the [1] element is rendered as a BOOLEAN.
	buf := bytesFromHex("3007 8102 0102 020101")
	err := Verify(buf)
	require.Error(err)
	errs := multierr.Errors(err)
	require.Len(errs, 1)
	var mismatch *MismatchError
	require.True(errors.As(errs[0], &mismatch))
	assert.Equal("[CONTEXT] Tag 1", mismatch.Node.Label)
	assert.Equal(2, mismatch.Node.ByteOffset)
	assert.Equal(3, mismatch.Offset)
	assert.NoError(mismatch.Err)
	assert.Equal("der: [CONTEXT] Tag 1 at offset 2: re-encoding differs at offset 3", mismatch.Error())
}

func TestVerify_Truncated(t *testing.T) {
	assert, require := makeAR(t)

	err := Verify(bytesFromHex("0500 020201"))
	require.Error(err)
	assert.ErrorIs(err, ErrTruncated)
	var mismatch *MismatchError
	require.True(errors.As(err, &mismatch))
	assert.Nil(mismatch.Node)
	assert.Equal(2, mismatch.Offset)
}

func TestVerify_Multiple(t *testing.T) {
	assert, _ := makeAR(t)

	// BOOLEAN 0x01 and a non-minimal INTEGER followed by a truncated element.
	err := Verify(bytesFromHex("010101 02020001 04"))
	errs := multierr.Errors(err)
	if assert.Len(errs, 3) {
		assert.ErrorIs(errs[2], ErrTruncated)
	}
}

func TestVerify_Malformed(t *testing.T) {
	assert, _ := makeAR(t)

	err := Verify(bytesFromHex("3080 0000"))
	assert.ErrorIs(err, tlv.ErrMalformedHeader)
	var mismatch *MismatchError
	assert.False(errors.As(err, &mismatch))
}

func TestVerify_Unsupported(t *testing.T) {
	assert, _ := makeAR(t)

	err := Verify(bytesFromHex("1F01 05"))
	assert.ErrorIs(err, ErrUnsupportedType)
	var mismatch *MismatchError
	if assert.True(errors.As(err, &mismatch)) {
		assert.Equal(dertree.Tag{Class: dertree.ClassUniversal, Number: 31}, mismatch.Node.Tag())
	}
}
