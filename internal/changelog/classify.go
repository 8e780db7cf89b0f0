package changelog

import (
	"regexp"
	"strings"
)

// prefixPattern captures the leading message token used for type lookup:
// everything up to the first whitespace, parenthesis, or colon.
var prefixPattern = regexp.MustCompile(`^[^\s(:]+`)

// MessagePrefix extracts the candidate type prefix from a raw commit
// message. It returns an empty string when the message has no leading token,
// which never matches a registered type.
func MessagePrefix(message string) string {
	return prefixPattern.FindString(message)
}

// Classify routes raw commits through the registry, normalizes the messages
// of matched commits, and attaches credits. Commits whose prefix is missing,
// unknown, or registered as hidden are dropped. The returned commits keep
// the input order.
//
// When every supplied commit is dropped, Classify returns a
// NoChangelogCommitsError listing the rejected commit titles so the range
// can be inspected.
func Classify(reg *Registry, commits []RawCommit) ([]ClassifiedCommit, error) {
	classified := make([]ClassifiedCommit, 0, len(commits))
	var skipped []string

	for _, rc := range commits {
		t, ok := reg.Lookup(MessagePrefix(rc.Message))
		if !ok || t.Hidden {
			skipped = append(skipped, firstLine(rc.Message))
			continue
		}

		merged := mergedPullRequests(rc.PullRequests)
		title, body := NormalizeMessage(rc.Message, t.Prefix, merged)

		classified = append(classified, ClassifiedCommit{
			Hash:         rc.Hash,
			URL:          rc.URL,
			Title:        title,
			Body:         body,
			Type:         t,
			PullRequests: merged,
			Credits:      ResolveCredits(rc.Authors),
		})
	}

	if len(commits) > 0 && len(classified) == 0 {
		return nil, &NoChangelogCommitsError{Skipped: skipped}
	}
	return classified, nil
}

func mergedPullRequests(prs []PullRequest) []PullRequest {
	merged := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.Merged {
			merged = append(merged, pr)
		}
	}
	return merged
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}
