package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"codello.dev/dertree/internal/pemio"
)

func inputFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "in",
		Aliases:     []string{"i"},
		Usage:       "input `file` (default: standard input)",
		Destination: dest,
	}
}

func formatFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "format",
		Usage:       "input `format`: auto, pem, der or hex",
		Value:       string(pemio.Auto),
		Destination: dest,
	}
}

// readInput reads the file named by filename, or standard input if filename is
// empty or "-".
func readInput(c *cli.Context, filename string) ([]byte, error) {
	if filename == "" || filename == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(filename)
}

// readEnvelope reads the input and extracts its DER payload.
func readEnvelope(c *cli.Context, filename, format string) (pemio.Input, error) {
	f, e := pemio.ParseFormat(format)
	if e != nil {
		return pemio.Input{}, e
	}
	data, e := readInput(c, filename)
	if e != nil {
		return pemio.Input{}, e
	}
	return pemio.Read(data, f)
}
