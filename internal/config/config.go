// Package config loads the TOML configuration of the dertree command.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"codello.dev/dertree/der"
	"codello.dev/dertree/oids"
)

// Output formats of the encode command.
const (
	OutputDER = "der"
	OutputPEM = "pem"
	OutputHex = "hex"
)

// Config holds the settings of the dertree command.
type Config struct {
	MaxDepth     int
	Lossless     bool
	AnnotateOIDs bool
	Indent       string
	Output       string
	PEMType      string
	LogLevel     string
	OIDs         map[string]string
}

// Default returns the configuration used without a configuration file.
func Default() Config {
	return Config{
		MaxDepth:     der.DefaultMaxDepth,
		Lossless:     true,
		AnnotateOIDs: true,
		Indent:       "  ",
		Output:       OutputDER,
		PEMType:      "CERTIFICATE",
	}
}

type fileConfig struct {
	MaxDepth     int               `toml:"max_depth"`
	Lossless     bool              `toml:"lossless"`
	AnnotateOIDs bool              `toml:"annotate_oids"`
	Indent       string            `toml:"indent"`
	Output       string            `toml:"output"`
	PEMType      string            `toml:"pem_type"`
	LogLevel     string            `toml:"log_level"`
	OIDs         map[string]string `toml:"oids"`
}

// Load reads the configuration file at path and overlays it on [Default]. An
// empty path returns the default configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("lossless") {
		cfg.Lossless = raw.Lossless
	}
	if meta.IsDefined("annotate_oids") {
		cfg.AnnotateOIDs = raw.AnnotateOIDs
	}
	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("pem_type") {
		cfg.PEMType = strings.TrimSpace(raw.PEMType)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("oids") {
		cfg.OIDs = raw.OIDs
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports all invalid settings of c.
func (c Config) Validate() (errs error) {
	if c.MaxDepth < 1 {
		errs = multierr.Append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	switch c.Output {
	case OutputDER, OutputPEM, OutputHex:
	default:
		errs = multierr.Append(errs, fmt.Errorf("output must be one of der, pem or hex, got %q", c.Output))
	}
	if strings.TrimSpace(c.Indent) != "" {
		errs = multierr.Append(errs, fmt.Errorf("indent may only contain white space, got %q", c.Indent))
	}
	if c.PEMType == "" {
		errs = multierr.Append(errs, fmt.Errorf("pem_type must not be empty"))
	}
	if c.LogLevel != "" && !strings.ContainsRune("VDIWEFN", rune(strings.ToUpper(c.LogLevel)[0])) {
		errs = multierr.Append(errs, fmt.Errorf("log_level must start with one of V, D, I, W, E, F or N, got %q", c.LogLevel))
	}
	_, err := c.Names()
	return multierr.Append(errs, err)
}

// Names returns the default OID names merged with the names of c.
func (c Config) Names() (*oids.Registry, error) {
	r := oids.Default()
	return r, r.Merge(c.OIDs)
}

// Options returns the der options selected by c.
func (c Config) Options() []der.Option {
	opts := []der.Option{
		der.WithMaxDepth(c.MaxDepth),
		der.WithLossless(c.Lossless),
	}
	if c.AnnotateOIDs {
		names, _ := c.Names()
		opts = append(opts, der.WithNames(names))
	}
	return opts
}
