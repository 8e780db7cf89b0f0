package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderRelease writes a release as markdown: the version heading, then each
// section with one bulleted entry per commit. Given the same release it
// produces byte-identical output, so re-running a generation never churns
// the changelog file.
func RenderRelease(rel *Release, w io.Writer) error {
	if err := renderHeading(rel, w); err != nil {
		return fmt.Errorf("rendering release heading: %w", err)
	}

	for _, s := range rel.Sections {
		if err := renderSection(&s, w); err != nil {
			return fmt.Errorf("rendering section %s: %w", s.Name, err)
		}
	}

	return nil
}

// RenderReleaseString is a convenience function that renders to a string.
func RenderReleaseString(rel *Release) (string, error) {
	var b strings.Builder
	if err := RenderRelease(rel, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderHeading writes the "## v<version> (<date>)" line.
func renderHeading(rel *Release, w io.Writer) error {
	_, err := fmt.Fprintf(w, "## %s (%s)\n", rel.Version, rel.Date.Format("2006-01-02"))
	return err
}

// renderSection writes one section heading and its commit entries.
func renderSection(s *Section, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "\n### %s\n\n", s.Name); err != nil {
		return err
	}

	for _, c := range s.Commits {
		if _, err := w.Write([]byte(formatEntry(&c) + "\n")); err != nil {
			return err
		}
		for _, line := range bodyLines(c.Body) {
			if _, err := w.Write([]byte("  " + line + "\n")); err != nil {
				return err
			}
		}
	}

	return nil
}

// formatEntry builds a commit's bullet line: linked short hash, pull request
// links in associated order, the title, and the parenthesized credits unless
// the commit's type omits them.
func formatEntry(c *ClassifiedCommit) string {
	var b strings.Builder
	b.WriteString("* ")
	b.WriteString(fmt.Sprintf("[`%s`](%s)", ShortHash(c.Hash), c.URL))
	for _, pr := range c.PullRequests {
		b.WriteString(fmt.Sprintf(" [#%d](%s)", pr.Number, pr.URL))
	}
	b.WriteString(" ")
	b.WriteString(c.Title)
	if credits := formatCredits(c); credits != "" {
		b.WriteString(" (")
		b.WriteString(credits)
		b.WriteString(")")
	}
	return b.String()
}

// formatCredits joins a commit's credits as markdown links. It returns an
// empty string when the commit's type suppresses attribution or no credits
// resolved.
func formatCredits(c *ClassifiedCommit) string {
	if c.Type.OmitCredits || len(c.Credits) == 0 {
		return ""
	}
	links := make([]string, 0, len(c.Credits))
	for _, credit := range c.Credits {
		if credit.ProfileURL == "" {
			links = append(links, credit.DisplayName)
			continue
		}
		links = append(links, fmt.Sprintf("[%s](%s)", credit.DisplayName, credit.ProfileURL))
	}
	return strings.Join(links, ", ")
}

// bodyLines splits a normalized body into its bullet lines.
func bodyLines(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

// ShortHash abbreviates a commit hash to the conventional seven characters.
func ShortHash(hash string) string {
	if len(hash) <= 7 {
		return hash
	}
	return hash[:7]
}
