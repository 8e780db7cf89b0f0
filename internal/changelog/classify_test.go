package changelog

import (
	"errors"
	"strings"
	"testing"
)

func TestMessagePrefix(t *testing.T) {
	tests := map[string]struct {
		message string
		want    string
	}{
		"plain prefix":            {message: "feat: add dark mode", want: "feat"},
		"scoped prefix":           {message: "feat(ui): add dark mode", want: "feat"},
		"breaking change marker":  {message: "feat!: drop old API", want: "feat!"},
		"no separator first word": {message: "update readme", want: "update"},
		"leading colon":           {message: ": odd message", want: ""},
		"empty message":           {message: "", want: ""},
		"multiline":               {message: "fix: crash\n\ndetails", want: "fix"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := MessagePrefix(tt.message); got != tt.want {
				t.Errorf("MessagePrefix(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassifyRouting(t *testing.T) {
	reg := DefaultRegistry()

	tests := map[string]struct {
		message     string
		wantSection string
		wantDropped bool
	}{
		"visible prefix routes to its section": {
			message:     "feat: add dark mode",
			wantSection: "Features",
		},
		"fix routes to bug fixes": {
			message:     "fix(parser): handle empty input",
			wantSection: "Bug Fixes",
		},
		"hidden prefix is dropped": {
			message:     "chore: bump CI image",
			wantDropped: true,
		},
		"unknown prefix is dropped": {
			message:     "wip: experiments",
			wantDropped: true,
		},
		"no prefix at all is dropped": {
			message:     "Merge branch 'main'",
			wantDropped: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			commits := []RawCommit{
				{Hash: "aaaaaaa", Message: tt.message},
				// A second classifiable commit keeps Classify from
				// reporting an all-dropped range.
				{Hash: "bbbbbbb", Message: "fix: keep the range non-empty"},
			}

			classified, err := Classify(reg, commits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantDropped {
				if len(classified) != 1 {
					t.Fatalf("expected commit to be dropped, got %d classified", len(classified))
				}
				if classified[0].Hash != "bbbbbbb" {
					t.Errorf("wrong commit survived: %s", classified[0].Hash)
				}
				return
			}

			if len(classified) != 2 {
				t.Fatalf("expected 2 classified commits, got %d", len(classified))
			}
			if classified[0].Type.Section != tt.wantSection {
				t.Errorf("section = %q, want %q", classified[0].Type.Section, tt.wantSection)
			}
		})
	}
}

func TestClassifyAllDropped(t *testing.T) {
	reg := DefaultRegistry()

	commits := []RawCommit{
		{Hash: "aaaaaaa", Message: "chore: tidy up"},
		{Hash: "bbbbbbb", Message: "random commit with no prefix:"},
	}

	_, err := Classify(reg, commits)
	if err == nil {
		t.Fatal("expected NoChangelogCommitsError")
	}

	var noCommits *NoChangelogCommitsError
	if !errors.As(err, &noCommits) {
		t.Fatalf("expected NoChangelogCommitsError, got %T", err)
	}
	if len(noCommits.Skipped) != 2 {
		t.Fatalf("expected 2 skipped titles, got %v", noCommits.Skipped)
	}
	if noCommits.Skipped[0] != "chore: tidy up" {
		t.Errorf("unexpected skipped title %q", noCommits.Skipped[0])
	}
	if !strings.Contains(err.Error(), "chore: tidy up") {
		t.Errorf("error message should list skipped titles, got %q", err.Error())
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	classified, err := Classify(DefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("unexpected error for empty input: %v", err)
	}
	if len(classified) != 0 {
		t.Errorf("expected no classified commits, got %d", len(classified))
	}
}

func TestClassifyPreservesOrder(t *testing.T) {
	reg := DefaultRegistry()

	commits := []RawCommit{
		{Hash: "1111111", Message: "fix: first"},
		{Hash: "2222222", Message: "feat: second"},
		{Hash: "3333333", Message: "fix: third"},
	}

	classified, err := Classify(reg, commits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var hashes []string
	for _, c := range classified {
		hashes = append(hashes, c.Hash)
	}
	want := []string{"1111111", "2222222", "3333333"}
	for i := range want {
		if hashes[i] != want[i] {
			t.Fatalf("order not preserved: got %v", hashes)
		}
	}
}

func TestClassifyKeepsOnlyMergedPullRequests(t *testing.T) {
	reg := DefaultRegistry()

	commits := []RawCommit{
		{
			Hash:    "aaaaaaa",
			Message: "feat: add export (#7)",
			PullRequests: []PullRequest{
				{Number: 7, URL: "https://github.com/acme/widget/pull/7", Merged: true},
				{Number: 9, URL: "https://github.com/acme/widget/pull/9", Merged: false},
			},
		},
	}

	classified, err := Classify(reg, commits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(classified[0].PullRequests) != 1 {
		t.Fatalf("expected only the merged pull request, got %v", classified[0].PullRequests)
	}
	if classified[0].PullRequests[0].Number != 7 {
		t.Errorf("wrong pull request kept: #%d", classified[0].PullRequests[0].Number)
	}
	if classified[0].Title != "add export" {
		t.Errorf("expected PR reference stripped from title, got %q", classified[0].Title)
	}
}

func TestClassifyAttachesCredits(t *testing.T) {
	reg := DefaultRegistry()

	commits := []RawCommit{
		{
			Hash:    "aaaaaaa",
			Message: "feat: add export",
			Authors: []Author{
				{Login: "alice", ProfileURL: "https://github.com/alice"},
				{Name: "Bob", Email: "bob@example.com"},
			},
		},
	}

	classified, err := Classify(reg, commits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	credits := classified[0].Credits
	if len(credits) != 2 {
		t.Fatalf("expected 2 credits, got %v", credits)
	}
	if credits[0].DisplayName != "@alice" {
		t.Errorf("first credit = %q, want @alice", credits[0].DisplayName)
	}
	if credits[1].DisplayName != "Bob" {
		t.Errorf("second credit = %q, want Bob", credits[1].DisplayName)
	}
}
