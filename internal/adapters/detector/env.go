// Package detector picks the output renderer for the current environment.
package detector

import (
	"os"

	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode of a run.
type OutputMode int

const (
	// ModeAuto detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeProgress draws a progress bar on an interactive terminal.
	ModeProgress
	// ModeLinear prints prefixed, chronological lines.
	ModeLinear
)

// String returns the flag value of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeProgress:
		return "progress"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// DetectEnvironment returns ModeLinear when stderr is not a terminal or CI is set,
// and ModeProgress otherwise.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // file descriptors fit in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeProgress
}

// ParseMode parses the value of the --output-mode flag.
func ParseMode(flag string) (OutputMode, error) {
	switch flag {
	case "auto", "":
		return ModeAuto, nil
	case "progress", "tui":
		return ModeProgress, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(domain.ErrInvalidOutputMode, "mode", flag)
	}
}

// ResolveMode applies a user choice to the detected mode.
func ResolveMode(autoDetected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return autoDetected
	}
	return requested
}
