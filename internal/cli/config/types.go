// Package config loads leapfilter CLI configuration.
//
// Values are layered with koanf, lowest precedence first: built-in
// defaults, the config file, LEAPFILTER_* environment variables, and flags
// that were set explicitly on the command line.
package config

import (
	"fmt"

	"github.com/leapstack-labs/leapfilter/internal/cli/output"
)

// Config holds all CLI configuration options.
type Config struct {
	Output  string `koanf:"output"`
	Verbose bool   `koanf:"verbose"`
	NoColor bool   `koanf:"no_color"`
	Catalog string `koanf:"catalog"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Validate checks option values.
func (c *Config) Validate() error {
	if !output.Valid(c.Output) {
		return fmt.Errorf("invalid output mode %q (want one of auto, text, markdown, json)", c.Output)
	}
	return nil
}

// Mode returns the configured output mode.
func (c *Config) Mode() output.OutputMode {
	return output.Mode(c.Output)
}
