// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dertree

import (
	"fmt"
	"testing"

	"codello.dev/dertree/internal/testenv"
)

var makeAR = testenv.MakeAR

func ExampleTag_String() {
	t1 := Tag{ClassApplication, 17}
	t2 := Tag{ClassContextSpecific, 8}
	t3 := Tag{ClassUniversal, TagInteger}
	fmt.Println(t1.String())
	fmt.Println(t2.String())
	fmt.Println(t3.String())
	// Output:
	// [APPLICATION 17]
	// [8]
	// [UNIVERSAL 2]
}

func TestTag_String(t *testing.T) {
	tests := map[string]struct {
		tag  Tag
		want string
	}{
		"Universal":   {Tag{ClassUniversal, TagInteger}, "[UNIVERSAL 2]"},
		"Application": {Tag{ClassApplication, 5}, "[APPLICATION 5]"},
		"Context":     {Tag{ClassContextSpecific, 0}, "[0]"},
		"Private":     {Tag{ClassPrivate, 30}, "[PRIVATE 30]"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.tag.String(); got != tt.want {
				t.Errorf("Tag.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]struct {
		tag  Tag
		want string
	}{
		"Sequence":    {Tag{ClassUniversal, TagSequence}, "SEQUENCE (Tag 16)"},
		"BitString":   {Tag{ClassUniversal, TagBitString}, "BIT STRING (Tag 3)"},
		"BMPString":   {Tag{ClassUniversal, TagBMPString}, "BMPString (Tag 30)"},
		"Reserved":    {Tag{ClassUniversal, TagReserved}, "Unknown (Tag 0)"},
		"Time":        {Tag{ClassUniversal, TagTime}, "Unknown (Tag 14)"},
		"LongForm":    {Tag{ClassUniversal, 31}, "Unknown (Tag 31)"},
		"Context":     {Tag{ClassContextSpecific, 0}, "[CONTEXT] Tag 0"},
		"Application": {Tag{ClassApplication, 1}, "[APPLICATION] Tag 1"},
		"Private":     {Tag{ClassPrivate, 3}, "[PRIVATE] Tag 3"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Label(tt.tag); got != tt.want {
				t.Errorf("Label(%v) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestClass_UnmarshalText(t *testing.T) {
	tests := map[string]struct {
		text    string
		want    Class
		wantErr bool
	}{
		"Universal":       {"Universal", ClassUniversal, false},
		"LowerCase":       {"application", ClassApplication, false},
		"Context":         {"Context", ClassContextSpecific, false},
		"ContextSpecific": {"ContextSpecific", ClassContextSpecific, false},
		"Hyphenated":      {"context-specific", ClassContextSpecific, false},
		"Private":         {"PRIVATE", ClassPrivate, false},
		"Root":            {"Root", ClassRoot, false},
		"PEM":             {"PEM", ClassRoot, false},
		"Unknown":         {"UNKNOWN", 0, true},
		"Empty":           {"", 0, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var c Class
			err := c.UnmarshalText([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if err == nil && c != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.text, c, tt.want)
			}
		})
	}
}

func TestClass_MarshalText(t *testing.T) {
	assert, _ := makeAR(t)

	for c := ClassUniversal; c <= ClassRoot; c++ {
		text, err := c.MarshalText()
		assert.NoError(err)
		var back Class
		assert.NoError(back.UnmarshalText(text))
		assert.Equal(c, back)
	}
	_, err := Class(7).MarshalText()
	assert.Error(err)
	assert.False(ClassRoot.IsValid())
	assert.True(ClassPrivate.IsValid())
}
