// Package pemio reads and writes the envelopes around DER data: PEM text, hex
// text and raw bytes.
package pemio

import (
	"bytes"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"strings"

	"codello.dev/dertree/der"
)

// Format identifies an envelope.
type Format string

// Supported formats.
const (
	Auto Format = "auto" // detect when reading
	PEM  Format = "pem"
	DER  Format = "der"
	Hex  Format = "hex"
)

// ErrNoPEM indicates PEM input without a PEM block.
var ErrNoPEM = errors.New("no PEM block found")

// ParseFormat parses the name of a format, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Auto, PEM, DER, Hex:
		return f, nil
	case "":
		return Auto, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Input is the DER payload of an envelope.
type Input struct {
	Format Format // envelope the payload was read from
	Type   string // PEM block type, if any
	Bytes  []byte
}

// Label returns the label of the root node decoded from in, e.g.
// "PEM: CERTIFICATE".
func (in Input) Label() string {
	if in.Format == PEM {
		return "PEM: " + in.Type
	}
	return der.DefaultLabel
}

// Detect guesses the format of data. Text starting with a PEM boundary is
// PEM. Non-empty text consisting only of an even number of hex digits,
// optionally separated by white space or colons, is hex. Anything else is DER.
func Detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("-----BEGIN ")) {
		return PEM
	}
	digits := 0
	for _, c := range trimmed {
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
			digits++
		case c == ' ', c == '\t', c == '\r', c == '\n', c == ':':
		default:
			return DER
		}
	}
	if digits == 0 || digits%2 != 0 {
		return DER
	}
	return Hex
}

// Read extracts the DER payload from data. If f is [Auto], the format is
// detected first. Only the first block of PEM input is used.
func Read(data []byte, f Format) (Input, error) {
	if f == Auto {
		f = Detect(data)
	}
	switch f {
	case PEM:
		block, _ := pem.Decode(data)
		if block == nil {
			return Input{}, ErrNoPEM
		}
		return Input{Format: PEM, Type: block.Type, Bytes: block.Bytes}, nil
	case Hex:
		b, err := decodeHex(data)
		if err != nil {
			return Input{}, fmt.Errorf("read hex: %w", err)
		}
		return Input{Format: Hex, Bytes: b}, nil
	case DER:
		return Input{Format: DER, Bytes: data}, nil
	}
	return Input{}, fmt.Errorf("unknown format %q", f)
}

// ReadAll reads r completely and extracts the DER payload.
func ReadAll(r io.Reader, f Format) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, err
	}
	return Read(data, f)
}

func decodeHex(data []byte) ([]byte, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', ':':
			return -1
		}
		return r
	}, string(data))
	return hex.DecodeString(s)
}

// Write writes b to w in format f. PEM output uses pemType as block type. Hex
// output is lower case without separators, followed by a newline.
func Write(w io.Writer, b []byte, f Format, pemType string) error {
	var err error
	switch f {
	case PEM:
		err = pem.Encode(w, &pem.Block{Type: pemType, Bytes: b})
	case Hex:
		_, err = io.WriteString(w, hex.EncodeToString(b)+"\n")
	case DER:
		_, err = w.Write(b)
	default:
		err = fmt.Errorf("unknown output format %q", f)
	}
	return err
}
