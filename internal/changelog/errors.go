package changelog

import (
	"fmt"
	"strings"
)

// EmptyRangeError reports a commit range that contains no commits at all.
// Nothing is written when it occurs.
type EmptyRangeError struct {
	From string
	To   string
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("no commits found in range %s..%s", e.From, e.To)
}

// NoChangelogCommitsError reports a range whose commits all fell outside the
// visible changelog types. Skipped holds the rejected commit titles so the
// range can be inspected.
type NoChangelogCommitsError struct {
	Skipped []string
}

func (e *NoChangelogCommitsError) Error() string {
	msg := fmt.Sprintf("none of %d commits matched a changelog type", len(e.Skipped))
	if len(e.Skipped) == 0 {
		return msg
	}
	return msg + ":\n  " + strings.Join(e.Skipped, "\n  ")
}

// MissingAnchorError reports a changelog document without the top-level
// title heading that anchors section insertion.
type MissingAnchorError struct{}

func (e *MissingAnchorError) Error() string {
	return "changelog document has no top-level title heading to anchor releases"
}
