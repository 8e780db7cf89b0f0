package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// blankRunPattern matches a run of one or more blank lines, including
	// lines that contain only whitespace.
	blankRunPattern = regexp.MustCompile(`\n\s*\n`)

	// versionTokenPattern matches dependency tokens such as
	// "lodash@4.17.21", "@types/node@18.11.9", or a slashed module path
	// with a version suffix. The optional leading backtick lets the
	// replacement skip tokens that are already wrapped.
	versionTokenPattern = regexp.MustCompile("`?" + `@?[\w./-]+@v?\d+\.\d+\.\d+[\w.+-]*`)
)

// NormalizeMessage converts a raw commit message into a display title and an
// optional bulleted body. prefix is the registry prefix the commit matched;
// it and any scope marker are removed from the title. merged is the commit's
// merged pull requests, whose trailing "(#N)" references are stripped from
// the title because the rendered entry links them explicitly.
func NormalizeMessage(message, prefix string, merged []PullRequest) (title, body string) {
	msg := strings.TrimSpace(message)
	msg = blankRunPattern.ReplaceAllString(msg, "\n")
	msg = wrapVersionTokens(msg)

	title, body, _ = strings.Cut(msg, "\n")
	title = stripTypePrefix(title, prefix)
	title = stripPullRequestRefs(title, merged)
	title = strings.TrimSpace(title)

	return title, normalizeBody(body, title)
}

// wrapVersionTokens wraps package@version tokens in backticks so dependency
// names render as code. Tokens already wrapped are left alone.
func wrapVersionTokens(s string) string {
	return versionTokenPattern.ReplaceAllStringFunc(s, func(m string) string {
		if strings.HasPrefix(m, "`") {
			return m
		}
		return "`" + m + "`"
	})
}

// stripTypePrefix removes the leading "<prefix>(<scope>)!:" marker from a
// title. The scope, the breaking-change bang, and the colon are all
// optional.
func stripTypePrefix(title, prefix string) string {
	if !strings.HasPrefix(title, prefix) {
		return title
	}
	rest := title[len(prefix):]
	if strings.HasPrefix(rest, "(") {
		end := strings.Index(rest, ")")
		if end < 0 {
			return title
		}
		rest = rest[end+1:]
	}
	rest = strings.TrimPrefix(rest, "!")
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimLeft(rest, " \t")
}

// stripPullRequestRefs removes trailing "(#N)" references that a squash
// merge appends to the title, for each merged pull request.
func stripPullRequestRefs(title string, merged []PullRequest) string {
	for _, pr := range merged {
		ref := fmt.Sprintf("(#%d)", pr.Number)
		trimmed := strings.TrimSpace(title)
		if strings.HasSuffix(trimmed, ref) {
			title = strings.TrimSpace(trimmed[:len(trimmed)-len(ref)])
		}
	}
	return title
}

// normalizeBody rewrites a message body into uniform "* " bullet fragments.
// Lines are trimmed, blank lines dropped, and consecutive non-bullet lines
// are folded into the preceding fragment with single spaces. Fragments whose
// text already appears in the title are dropped to avoid repeating the
// squash-merge summary.
func normalizeBody(body, title string) string {
	var fragments [][]string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == '*' || line[0] == '-' {
			fragments = append(fragments, []string{strings.TrimSpace(line[1:])})
			continue
		}
		if len(fragments) == 0 {
			fragments = append(fragments, []string{line})
			continue
		}
		last := len(fragments) - 1
		fragments[last] = append(fragments[last], line)
	}

	bullets := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		text := strings.TrimSpace(strings.Join(frag, " "))
		if text == "" || strings.Contains(title, text) {
			continue
		}
		bullets = append(bullets, "* "+text)
	}
	return strings.Join(bullets, "\n")
}
