package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"codello.dev/dertree"
	"codello.dev/dertree/der"
	"codello.dev/dertree/internal/pemio"
)

func init() {
	var filename, outFormat, pemType string

	defineCommand(&cli.Command{
		Name:  "encode",
		Usage: "Encode a JSON tree into DER, PEM or hex",
		Flags: []cli.Flag{
			inputFlag(&filename),
			&cli.StringFlag{
				Name:        "out-format",
				Usage:       "output `format`: der, pem or hex (default: from configuration)",
				Destination: &outFormat,
			},
			&cli.StringFlag{
				Name:        "pem-type",
				Usage:       "PEM block `type` (default: from configuration)",
				Destination: &pemType,
			},
		},
		Action: func(c *cli.Context) error {
			out, typ := outFormat, pemType
			if out == "" {
				out = cfg.Output
			}
			if typ == "" {
				typ = cfg.PEMType
			}
			f, e := pemio.ParseFormat(out)
			if e != nil {
				return e
			}

			data, e := readInput(c, filename)
			if e != nil {
				return e
			}
			root, e := dertree.ParseJSON(data)
			if e != nil {
				return fmt.Errorf("parse tree: %w", e)
			}
			b, e := der.Encode(root, cfg.Options()...)
			if e != nil {
				logger.Error("encode failed", zap.Error(e))
				return e
			}
			logger.Info("encoded", zap.String("format", string(f)), zap.Int("bytes", len(b)))
			return pemio.Write(c.App.Writer, b, f, typ)
		},
	})
}
