// Package output provides utilities for creating termenv.Output with consistent
// color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// fder is implemented by writers backed by a file descriptor, such as *os.File.
type fder interface {
	Fd() uintptr
}

// ColorProfile returns the color profile for w.
// NO_COLOR and non-terminal writers get Ascii. CI gets plain ANSI.
// Otherwise the terminal's capabilities are detected.
func ColorProfile(w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	if ci := os.Getenv("CI"); ci == "true" || ci == "1" {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// IsTerminal reports whether w is connected to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int on supported platforms
}

// New creates a new termenv.Output for w with the profile chosen by ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return NewWithProfile(w, ColorProfile(w), opts...)
}

// NewWithProfile creates a new termenv.Output with a fixed profile.
func NewWithProfile(w io.Writer, profile termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
