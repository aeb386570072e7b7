package app

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestVersionString(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		commit   string
		expected string
	}{
		{"no commit", "dev", "", "dev"},
		{"short commit", "v1.0.0", "abc123", "v1.0.0 (abc123)"},
		{"long commit", "v1.0.0", "0123456789abcdef", "v1.0.0 (0123456)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VersionString(tt.version, tt.commit))
		})
	}
}

func TestPrint(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := options.Program{
		Parameters: options.Parameters{Input: "pong.ch8"},
		Emulation:  options.Emulation{CycleRate: 500, Cycles: 100},
	}

	PrintBanner(logger, opts, "dev", "0123456789", "2026-01-01")
	PrintInfo(logger, opts, 246)

	opts.Quiet = true
	PrintBanner(logger, opts, "dev", "", "")
	PrintInfo(logger, opts, 246)
}
