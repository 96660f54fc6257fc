package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"codello.dev/dertree/der"
	"codello.dev/dertree/tlv"
)

func init() {
	var filename, format string

	defineCommand(&cli.Command{
		Name:  "verify",
		Usage: "Check that decoding and encoding the input reproduces it",
		Flags: []cli.Flag{
			inputFlag(&filename),
			formatFlag(&format),
		},
		Action: func(c *cli.Context) error {
			in, e := readEnvelope(c, filename, format)
			if e != nil {
				return e
			}

			e = der.Verify(in.Bytes, cfg.Options()...)
			if e == nil {
				fmt.Fprintf(c.App.Writer, "OK: %d bytes reproduce\n", len(in.Bytes))
				return nil
			}
			var syntaxErr *tlv.SyntaxError
			if errors.As(e, &syntaxErr) {
				return e
			}
			errs := multierr.Errors(e)
			for _, err := range errs {
				fmt.Fprintln(c.App.Writer, err)
			}
			logger.Info("verification failed", zap.Int("mismatches", len(errs)))
			return fmt.Errorf("%d elements do not reproduce", len(errs))
		},
	})
}

