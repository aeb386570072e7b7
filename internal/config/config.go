// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateProgramLogger creates the logger for the program options. The
// terminal interface owns the screen while running, so only errors are
// logged in interactive mode unless debug logging is enabled.
func CreateProgramLogger(opts options.Program) *log.Logger {
	return CreateLogger(opts.Debug, opts.Quiet || !opts.Headless())
}
