// Package output provides terminal output formatting utilities for the shiplog CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintRule prints a dim horizontal rule with a centered label.
// Used to frame rendered changelog previews.
func PrintRule(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	dim := color.New(color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", dim(line), dim(label), dim(line))
}

// PrintSuccess prints a colored success message.
// Uses green checkmark and cyan for the message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintWarning prints a colored warning message.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("!"), message)
}
