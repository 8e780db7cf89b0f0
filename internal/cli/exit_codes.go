package cli

import "fmt"

// Exit codes for the shiplog CLI.
// These codes support scripted release pipelines and CI integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeError indicates a generic runtime failure
	ExitRuntimeError = 1

	// ExitEmptyRange indicates the commit range contained no commits
	ExitEmptyRange = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitNoChangelogCommits indicates no commit in the range matched a changelog type
	ExitNoChangelogCommits = 4

	// ExitMissingAnchor indicates the changelog file is missing or has no title heading
	ExitMissingAnchor = 5
)

// ExitError carries a process exit code through a cobra RunE return. The
// command that returns it has already printed its own diagnostics.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that maps to the given process exit code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode translates an error into a process exit code. Nil means success,
// an ExitError carries its own code, and anything else is a runtime failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code
	}
	return ExitRuntimeError
}
