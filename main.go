// Package main implements the main entry point for a CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/terminal"
	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := retroapp.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			app.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateProgramLogger(opts)
	app.PrintBanner(logger, opts, version, commit, date)

	if opts.Headless() {
		err = runHeadless(logger, opts)
	} else {
		err = runInteractive(ctx, logger, opts)
	}
	if err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func runnerOptions(opts options.Program) runner.Options {
	return runner.Options{
		CycleRate: opts.CycleRate,
		Trace:     opts.Trace,
	}
}

func loadROM(logger *log.Logger, opts options.Program, m *machine.Machine) error {
	size, err := loader.New().Load(opts, m)
	if err != nil {
		return err
	}
	app.PrintInfo(logger, opts, size)
	return nil
}

// runHeadless executes the configured number of cycles and prints the
// final display to stdout.
func runHeadless(logger *log.Logger, opts options.Program) error {
	r := runner.New(logger, runnerOptions(opts), nil, nil)
	if err := loadROM(logger, opts, r.Machine()); err != nil {
		return err
	}

	runErr := r.RunCycles(opts.Cycles)
	for _, row := range terminal.RenderRows(r.Machine().Display()) {
		fmt.Println(row)
	}
	return runErr
}

// runInteractive runs the machine in real time with the terminal interface
// until the user quits, the process is signaled or the machine fails.
func runInteractive(ctx context.Context, logger *log.Logger, opts options.Program) error {
	keymap, err := keypad.ParseMap(opts.Keys)
	if err != nil {
		return fmt.Errorf("parsing key layout: %w", err)
	}
	kp := keypad.New(opts.Hold)

	title := "CHIP-8: " + filepath.Base(opts.Input)
	status := fmt.Sprintf("keys %s = 0-F, esc: quit", opts.Keys)
	screen, err := terminal.New(keymap, kp, title, status)
	if err != nil {
		return err
	}
	defer screen.Close()

	r := runner.New(logger, runnerOptions(opts), kp, screen)
	if err := loadROM(logger, opts, r.Machine()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		err := r.Run(ctx)
		screen.Stop(err)
		runErr <- err
	}()

	loopErr := screen.MainLoop()
	cancel()
	if err := <-runErr; err != nil {
		return err
	}
	if loopErr != nil {
		return fmt.Errorf("running terminal: %w", loopErr)
	}
	return nil
}
