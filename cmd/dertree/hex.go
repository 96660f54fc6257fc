package main

import (
	"github.com/urfave/cli/v2"

	"codello.dev/dertree/internal/pemio"
)

func init() {
	var filename, format string

	defineCommand(&cli.Command{
		Name:  "hex",
		Usage: "Print the DER payload of the input as lower case hex",
		Flags: []cli.Flag{
			inputFlag(&filename),
			formatFlag(&format),
		},
		Action: func(c *cli.Context) error {
			in, e := readEnvelope(c, filename, format)
			if e != nil {
				return e
			}
			return pemio.Write(c.App.Writer, in.Bytes, pemio.Hex, "")
		},
	})
}
