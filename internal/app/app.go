// Package app provides the main application helpers for the emulator.
package app

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// PrintBanner logs the program version.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", VersionString(version, commit)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// VersionString returns the version with the short commit hash appended.
func VersionString(version, commit string) string {
	if commit == "" {
		return version
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}

// PrintInfo logs the information about the loaded ROM and the execution mode.
func PrintInfo(logger *log.Logger, opts options.Program, size int) {
	if opts.Quiet {
		return
	}

	logger.Info("Loaded CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.Hex("end", machine.ProgramStart+size),
		log.Int("cycle_rate", opts.CycleRate),
	)
	if opts.Headless() {
		logger.Info("Running headless", log.Int("cycles", opts.Cycles))
	}
}
