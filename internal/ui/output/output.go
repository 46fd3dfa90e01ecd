// Package output builds termenv outputs that share one color policy across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Environment variables consulted by the color policy.
const (
	NoColorEnv    = "NO_COLOR"
	ForceColorEnv = "CLICOLOR_FORCE"
)

// ColorProfile returns the profile for interactive output.
// NO_COLOR disables colors, CLICOLOR_FORCE enables ANSI colors even without a terminal,
// otherwise the terminal capabilities are detected.
func ColorProfile() termenv.Profile {
	switch {
	case os.Getenv(NoColorEnv) != "":
		return termenv.Ascii
	case forced():
		return termenv.ANSI
	default:
		return termenv.EnvColorProfile()
	}
}

// ColorProfileANSI returns the profile for non-interactive output such as CI logs.
func ColorProfileANSI() termenv.Profile {
	if os.Getenv(NoColorEnv) != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates an output writing to w with ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile creates an output writing to w with the profile chosen by profileFn.
// A nil writer means stderr.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

func forced() bool {
	v := os.Getenv(ForceColorEnv)
	return v != "" && v != "0"
}
