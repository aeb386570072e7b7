// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args)
}

func parseArgs(osArgs []string) (options.Program, error) {
	flags := flag.NewFlagSet(osArgs[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(osArgs[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions checks the option values for consistency
func validateOptions(opts options.Program) error {
	if opts.CycleRate <= 0 || opts.CycleRate > runner.MaxCycleRate {
		return fmt.Errorf("invalid cycle rate %d: must be between 1 and %d", opts.CycleRate, runner.MaxCycleRate)
	}
	if opts.Cycles < 0 {
		return fmt.Errorf("invalid cycle count %d: must not be negative", opts.Cycles)
	}
	if opts.Hold <= 0 {
		return fmt.Errorf("invalid key hold duration %s: must be positive", opts.Hold)
	}
	if _, err := keypad.ParseMap(opts.Keys); err != nil {
		return fmt.Errorf("parsing key layout: %w", err)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.IntVar(&opts.CycleRate, "rate", runner.DefaultCycleRate, "instructions executed per second")
	flags.StringVar(&opts.Keys, "keys", keypad.DefaultLayout, "16 host keys bound to the hex keys 0-F in order")
	flags.DurationVar(&opts.Hold, "hold", keypad.DefaultHold, "duration a key press stays held")
	flags.IntVar(&opts.Cycles, "cycles", 0, "run headless for the given number of cycles and print the display")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
