// Package ui provides terminal UI helpers.
package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Spinner wraps a terminal spinner for loading states. When stderr is not a
// terminal it stays silent so piped output is not littered with frames.
type Spinner struct {
	s      *spinner.Spinner
	active bool
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = "  " + msg
	s.Color("cyan")
	return &Spinner{s: s, active: IsTerminal(os.Stderr)}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Start begins the spinner animation.
func (sp *Spinner) Start() {
	if sp.active {
		sp.s.Start()
	}
}

// Stop halts the spinner and clears the line.
func (sp *Spinner) Stop() {
	if sp.active {
		sp.s.Stop()
	}
}

// Success stops the spinner and prints a green check.
func (sp *Spinner) Success(msg string) {
	sp.Stop()
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "  ✓ %s\n", msg)
}

// Fail stops the spinner and prints a red cross.
func (sp *Spinner) Fail(msg string) {
	sp.Stop()
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "  ✗ %s\n", msg)
}
