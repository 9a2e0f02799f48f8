// Package config loads su2pipe CLI configuration from file, environment
// and flags.
package config

import (
	"fmt"
	"time"
)

// Config holds all CLI configuration options.
type Config struct {
	SolverBinary  string `koanf:"solver_binary"`
	SolverTimeout string `koanf:"solver_timeout"`
	Verbose       bool   `koanf:"verbose"`

	// Timeout is SolverTimeout parsed; set during load.
	Timeout time.Duration `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSolverBinary  = "SU2_CFD"
	DefaultSolverTimeout = "2h"
)

// validate checks derived fields and value ranges.
func (c *Config) validate() error {
	d, err := time.ParseDuration(c.SolverTimeout)
	if err != nil {
		return fmt.Errorf("invalid solver_timeout %q: %w", c.SolverTimeout, err)
	}
	c.Timeout = d
	return nil
}
