package changelog

import (
	"context"
	"time"
)

// RawCommit is a single commit enriched with hosting-platform metadata. It is
// the input shape for classification: the local repository supplies the hash,
// a MetadataProvider fills in the message, URL, authors, and pull requests.
type RawCommit struct {
	Hash         string
	Message      string
	URL          string
	Authors      []Author
	PullRequests []PullRequest
}

// Author identifies one person who contributed to a commit. Login and
// ProfileURL are set when the hosting platform recognizes the account;
// Name and Email always carry the raw git identity as a fallback.
type Author struct {
	Login      string
	ProfileURL string
	Name       string
	Email      string
}

// PullRequest is a pull request associated with a commit.
type PullRequest struct {
	Number int
	URL    string
	Merged bool
}

// Credit is one renderable attribution for a commit: a display name and the
// URL it links to.
type Credit struct {
	DisplayName string
	ProfileURL  string
}

// ClassifiedCommit is a commit that matched a visible changelog type. Title
// and Body have been normalized for rendering, PullRequests holds only merged
// pull requests, and Credits is ready for display. Type is the registry entry
// the commit matched; its Section, Minor, and OmitCredits fields drive
// grouping, version computation, and rendering.
type ClassifiedCommit struct {
	Hash         string
	URL          string
	Title        string
	Body         string
	Type         Type
	PullRequests []PullRequest
	Credits      []Credit
}

// Section groups the classified commits that share a section heading.
// Commits keep the order they were supplied in.
type Section struct {
	Name    string
	Commits []ClassifiedCommit
}

// Release is one fully assembled changelog release, ready to render.
// Version carries the tag prefix (for example "v1.3.0") and Sections are
// ordered by the registry's declaration order.
type Release struct {
	Version  string
	Date     time.Time
	Sections []Section
}

// MetadataProvider resolves hosting-platform metadata for a list of commit
// hashes. Implementations must return one RawCommit per input hash, in the
// same order as the input.
type MetadataProvider interface {
	CommitsMetadata(ctx context.Context, hashes []string) ([]RawCommit, error)
}
