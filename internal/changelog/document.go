package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// releaseHeadingPattern matches a release section heading such as
// "## v1.2.3 (2026-01-15)". The parenthesized token is not validated as a
// date: earlier edits may have used a different date format, and the match
// must still find the section.
var releaseHeadingPattern = regexp.MustCompile(`^##\s+(v?\d+\.\d+\.\d+\S*)\s+\((.+)\)\s*$`)

// Document is a parsed changelog file: one top-level title, optional
// preamble text, and the release sections in file order. Modeling the file
// as typed sections instead of matching substrings keeps replacement exact
// even when heading whitespace or date formats drift between edits.
type Document struct {
	Title    string
	Preamble string
	Releases []DocumentSection

	// leading preserves text found before the title, such as editor
	// directives or badges, so rewriting the file never loses it.
	leading string
}

// DocumentSection is one release section of a changelog document. Version
// is normalized (no tag prefix) for matching; Heading preserves the original
// heading line.
type DocumentSection struct {
	Heading string
	Version string
	Body    string
}

// ParseDocument parses changelog markdown into a Document. The text must
// contain a top-level "# " title to anchor edits; without one ParseDocument
// returns a MissingAnchorError.
func ParseDocument(text string) (*Document, error) {
	lines := strings.Split(text, "\n")

	titleIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			titleIdx = i
			break
		}
	}
	if titleIdx == -1 {
		return nil, &MissingAnchorError{}
	}

	doc := &Document{
		Title:   strings.TrimRight(lines[titleIdx], " \t"),
		leading: strings.TrimSpace(strings.Join(lines[:titleIdx], "\n")),
	}

	var preamble, body []string
	flush := func() {
		if len(doc.Releases) > 0 {
			doc.Releases[len(doc.Releases)-1].Body = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	for _, line := range lines[titleIdx+1:] {
		if m := releaseHeadingPattern.FindStringSubmatch(line); m != nil {
			flush()
			doc.Releases = append(doc.Releases, DocumentSection{
				Heading: strings.TrimSpace(line),
				Version: NormalizeVersion(m[1]),
			})
			continue
		}
		if len(doc.Releases) == 0 {
			preamble = append(preamble, line)
		} else {
			body = append(body, line)
		}
	}
	flush()
	doc.Preamble = strings.TrimSpace(strings.Join(preamble, "\n"))

	return doc, nil
}

// Section returns the trimmed text of the release section matching version,
// heading line included, or an empty string when the document has no such
// section. The match ignores the tag prefix and the heading's date.
func (d *Document) Section(version string) string {
	want := NormalizeVersion(version)
	for _, s := range d.Releases {
		if s.Version == want {
			return sectionText(s)
		}
	}
	return ""
}

// Upsert installs a rendered release section into the document. A section
// whose version already exists is replaced wholesale; otherwise the new
// section is inserted directly after the title and preamble, ahead of every
// existing release, keeping the file newest-first.
func (d *Document) Upsert(rendered string) error {
	section, err := parseSection(rendered)
	if err != nil {
		return err
	}

	for i := range d.Releases {
		if d.Releases[i].Version == section.Version {
			d.Releases[i] = section
			return nil
		}
	}
	d.Releases = append([]DocumentSection{section}, d.Releases...)
	return nil
}

// Render serializes the document back to markdown with a blank line between
// the title, the preamble, and each release section, ending with a single
// trailing newline. Parsing and re-rendering a document produced here is
// byte-stable.
func (d *Document) Render() string {
	var b strings.Builder
	if d.leading != "" {
		b.WriteString(d.leading)
		b.WriteString("\n\n")
	}
	b.WriteString(d.Title)
	b.WriteString("\n")
	if d.Preamble != "" {
		b.WriteString("\n")
		b.WriteString(d.Preamble)
		b.WriteString("\n")
	}
	for _, s := range d.Releases {
		b.WriteString("\n")
		b.WriteString(sectionText(s))
		b.WriteString("\n")
	}
	return b.String()
}

func sectionText(s DocumentSection) string {
	if s.Body == "" {
		return s.Heading
	}
	return s.Heading + "\n\n" + s.Body
}

// parseSection splits a rendered release into its heading and body. The
// first line must be a release heading.
func parseSection(rendered string) (DocumentSection, error) {
	trimmed := strings.TrimSpace(rendered)
	heading, body, _ := strings.Cut(trimmed, "\n")

	m := releaseHeadingPattern.FindStringSubmatch(heading)
	if m == nil {
		return DocumentSection{}, fmt.Errorf("rendered section does not start with a release heading: %q", heading)
	}
	return DocumentSection{
		Heading: strings.TrimSpace(heading),
		Version: NormalizeVersion(m[1]),
		Body:    strings.TrimSpace(body),
	}, nil
}
