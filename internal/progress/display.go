// Package progress renders phase progress for long-running shiplog
// commands. On a TTY it animates a spinner; otherwise it prints plain
// lines so CI logs stay readable.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the symbols used for phase status output.
// SpinnerSet indexes into spinner.CharSets.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// PhaseInfo describes one phase of a changelog run for display purposes.
type PhaseInfo struct {
	Name        string
	Number      int
	TotalPhases int
}

func (p PhaseInfo) validate() error {
	if p.Name == "" {
		return fmt.Errorf("phase name is empty")
	}
	if p.Number < 1 || p.TotalPhases < p.Number {
		return fmt.Errorf("phase %d of %d out of range", p.Number, p.TotalPhases)
	}
	return nil
}

// ProgressDisplay renders phase progress to the terminal.
type ProgressDisplay struct {
	caps    TerminalCapabilities
	symbols ProgressSymbols
	out     io.Writer
	spinner *spinner.Spinner
}

// NewProgressDisplay creates a display for the given terminal capabilities.
// Output goes to stderr so rendered changelog content on stdout stays clean.
func NewProgressDisplay(caps TerminalCapabilities) *ProgressDisplay {
	return &ProgressDisplay{
		caps:    caps,
		symbols: SelectSymbols(caps),
		out:     os.Stderr,
	}
}

// SetOutput redirects display output. Used by tests.
func (d *ProgressDisplay) SetOutput(w io.Writer) {
	d.out = w
}

// StartPhase begins displaying a phase: a spinner on a TTY, a plain
// line otherwise.
func (d *ProgressDisplay) StartPhase(info PhaseInfo) error {
	if err := info.validate(); err != nil {
		return fmt.Errorf("starting phase display: %w", err)
	}

	d.StopSpinner()

	if !d.caps.IsTTY {
		fmt.Fprintf(d.out, "[%d/%d] %s...\n", info.Number, info.TotalPhases, info.Name)
		return nil
	}

	s := spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(d.out))
	s.Suffix = fmt.Sprintf(" [%d/%d] %s...", info.Number, info.TotalPhases, info.Name)
	if d.caps.SupportsColor {
		_ = s.Color("cyan")
	}
	s.Start()
	d.spinner = s
	return nil
}

// CompletePhase stops any active spinner and prints the phase as done.
// detail is appended in parentheses when non-empty.
func (d *ProgressDisplay) CompletePhase(info PhaseInfo, detail string) {
	d.StopSpinner()

	mark := d.symbols.Checkmark
	if d.caps.SupportsColor {
		mark = color.New(color.FgGreen).Sprint(mark)
	}
	line := fmt.Sprintf("%s [%d/%d] %s", mark, info.Number, info.TotalPhases, info.Name)
	if detail != "" {
		line += fmt.Sprintf(" (%s)", detail)
	}
	fmt.Fprintln(d.out, line)
}

// FailPhase stops any active spinner and prints the phase as failed.
func (d *ProgressDisplay) FailPhase(info PhaseInfo, err error) {
	d.StopSpinner()

	mark := d.symbols.Failure
	if d.caps.SupportsColor {
		mark = color.New(color.FgRed).Sprint(mark)
	}
	line := fmt.Sprintf("%s [%d/%d] %s", mark, info.Number, info.TotalPhases, info.Name)
	if err != nil {
		line += fmt.Sprintf(": %v", err)
	}
	fmt.Fprintln(d.out, line)
}

// StopSpinner halts the active spinner, if any. Safe to call repeatedly.
func (d *ProgressDisplay) StopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
