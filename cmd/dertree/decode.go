package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"codello.dev/dertree"
	"codello.dev/dertree/der"
)

func init() {
	var filename, format, label string

	defineCommand(&cli.Command{
		Name:  "decode",
		Usage: "Decode DER, PEM or hex input into a JSON tree",
		Flags: []cli.Flag{
			inputFlag(&filename),
			formatFlag(&format),
			&cli.StringFlag{
				Name:        "label",
				Usage:       "`label` of the root node (default: derived from the input)",
				Destination: &label,
			},
		},
		Action: func(c *cli.Context) error {
			in, e := readEnvelope(c, filename, format)
			if e != nil {
				return e
			}
			rootLabel := label
			if rootLabel == "" {
				rootLabel = in.Label()
			}

			root, e := der.Decode(in.Bytes, append(cfg.Options(), der.WithLabel(rootLabel))...)
			if e != nil {
				logger.Error("decode failed", zap.Error(e))
				return e
			}
			logger.Info("decoded",
				zap.String("format", string(in.Format)),
				zap.Int("bytes", len(in.Bytes)),
				zap.Int("elements", len(root.Children)),
			)

			j, e := dertree.MarshalIndent(root, cfg.Indent)
			if e != nil {
				return e
			}
			_, e = c.App.Writer.Write(append(j, '\n'))
			return e
		},
	})
}
