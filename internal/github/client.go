// Package github implements commit metadata retrieval against the GitHub
// REST API. It is the only package that talks to the network: the changelog
// core consumes its results through the changelog.MetadataProvider
// interface and stays fully testable offline.
package github

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/go-github/v75/github"
	"golang.org/x/sync/errgroup"

	"github.com/shiplog-dev/shiplog/internal/changelog"
)

const (
	// defaultConcurrency bounds parallel API calls during a fetch.
	defaultConcurrency = 5

	// maxAuthors and maxPullRequests cap how much metadata a single commit
	// contributes. Anything beyond the cap is dropped silently; a commit
	// with dozens of co-authors does not need them all credited.
	maxAuthors      = 10
	maxPullRequests = 10
)

// coAuthorPattern matches "Co-authored-by: Name <email>" commit trailers.
var coAuthorPattern = regexp.MustCompile(`(?mi)^co-authored-by:\s*([^<]+?)\s*<([^>]+)>\s*$`)

// Config carries the settings needed to reach a hosted repository.
type Config struct {
	Owner string
	Repo  string

	// Token authenticates API calls. Empty is allowed for public
	// repositories, subject to much lower rate limits.
	Token string

	// BaseURL overrides the API endpoint, for GitHub Enterprise or tests.
	BaseURL string

	// Concurrency bounds parallel API calls. Zero means the default.
	Concurrency int
}

// Client fetches commit metadata for one repository.
type Client struct {
	gh          *github.Client
	owner       string
	repo        string
	concurrency int
}

// NewClient builds a metadata client for the configured repository.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github client requires owner and repository")
	}

	gh := github.NewClient(nil)
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing API base URL: %w", err)
		}
		gh.BaseURL = base
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Client{
		gh:          gh,
		owner:       cfg.Owner,
		repo:        cfg.Repo,
		concurrency: concurrency,
	}, nil
}

// CommitsMetadata resolves metadata for the given commit hashes. Results
// come back in input order, one per hash. Calls are fanned out with bounded
// concurrency; the first failure cancels the rest.
func (c *Client) CommitsMetadata(ctx context.Context, hashes []string) ([]changelog.RawCommit, error) {
	results := make([]changelog.RawCommit, len(hashes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, hash := range hashes {
		g.Go(func() error {
			rc, err := c.commitMetadata(ctx, hash)
			if err != nil {
				return err
			}
			results[i] = rc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// commitMetadata fetches one commit plus its associated pull requests.
func (c *Client) commitMetadata(ctx context.Context, hash string) (changelog.RawCommit, error) {
	commit, _, err := c.gh.Repositories.GetCommit(ctx, c.owner, c.repo, hash, nil)
	if err != nil {
		return changelog.RawCommit{}, fmt.Errorf("fetching commit %s: %w", changelog.ShortHash(hash), err)
	}

	prs, _, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, c.owner, c.repo, hash, &github.ListOptions{
		PerPage: maxPullRequests,
	})
	if err != nil {
		return changelog.RawCommit{}, fmt.Errorf("fetching pull requests for %s: %w", changelog.ShortHash(hash), err)
	}

	message := commit.GetCommit().GetMessage()

	rc := changelog.RawCommit{
		Hash:         hash,
		Message:      message,
		URL:          commit.GetHTMLURL(),
		Authors:      commitAuthors(commit, message),
		PullRequests: pullRequests(prs),
	}
	if rc.URL == "" {
		rc.URL = fmt.Sprintf("https://github.com/%s/%s/commit/%s", c.owner, c.repo, hash)
	}
	return rc, nil
}

// commitAuthors builds the author list: the commit author first, then any
// co-authors from commit trailers, deduplicated and capped.
func commitAuthors(commit *github.RepositoryCommit, message string) []changelog.Author {
	var authors []changelog.Author
	seen := make(map[string]bool)

	add := func(a changelog.Author) {
		key := strings.ToLower(a.Email)
		if key == "" {
			key = strings.ToLower(a.Login + "/" + a.Name)
		}
		if key == "/" || seen[key] || len(authors) >= maxAuthors {
			return
		}
		seen[key] = true
		authors = append(authors, a)
	}

	add(changelog.Author{
		Login:      commit.GetAuthor().GetLogin(),
		ProfileURL: commit.GetAuthor().GetHTMLURL(),
		Name:       commit.GetCommit().GetAuthor().GetName(),
		Email:      commit.GetCommit().GetAuthor().GetEmail(),
	})
	for _, m := range coAuthorPattern.FindAllStringSubmatch(message, -1) {
		add(changelog.Author{Name: m[1], Email: m[2]})
	}
	return authors
}

// pullRequests converts API pull requests, keeping the association order.
func pullRequests(prs []*github.PullRequest) []changelog.PullRequest {
	if len(prs) > maxPullRequests {
		prs = prs[:maxPullRequests]
	}
	out := make([]changelog.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, changelog.PullRequest{
			Number: pr.GetNumber(),
			URL:    pr.GetHTMLURL(),
			Merged: pr.MergedAt != nil,
		})
	}
	return out
}
