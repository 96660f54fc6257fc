// Command dertree converts between DER data and editable JSON trees.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"codello.dev/dertree/internal/config"
	"codello.dev/dertree/internal/logging"
)

var logger = logging.New("cli")

var (
	configFile string
	cfg        config.Config
)

var app = &cli.App{
	Usage: "Convert between DER data and editable JSON trees.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "TOML configuration `file`",
			EnvVars:     []string{"DERTREE_CONFIG"},
			Destination: &configFile,
		},
	},
	Before: func(c *cli.Context) (e error) {
		if cfg, e = config.Load(configFile); e != nil {
			return fmt.Errorf("%s: %w", configFile, e)
		}
		if cfg.LogLevel != "" {
			logging.SetLevel("der", cfg.LogLevel)
			logging.SetLevel("cli", cfg.LogLevel)
		}
		return nil
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

func main() {
	sort.Sort(cli.CommandsByName(app.Commands))
	e := app.Run(os.Args)
	if e != nil {
		log.Fatal(e)
	}
}
