package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// StubCommit is the metadata the stub API serves for one commit.
type StubCommit struct {
	Message     string
	AuthorLogin string
	AuthorName  string
	AuthorEmail string

	// PRNumber associates a merged pull request with the commit. Zero
	// means none.
	PRNumber int
}

// GitHubStub is a fake GitHub API server covering the endpoints shiplog
// calls while fetching commit metadata. Commits are registered by hash
// after the fixture repository is built, since hashes are only known then.
type GitHubStub struct {
	server *httptest.Server
	repo   string

	mu      sync.Mutex
	commits map[string]StubCommit
	// requests counts metadata requests served, letting tests assert that
	// dry runs and local commands stay off the network.
	requests int
}

// NewGitHubStub starts a stub API server for the given repository. The
// server shuts down automatically when the test finishes.
func NewGitHubStub(t *testing.T, owner, repo string) *GitHubStub {
	t.Helper()

	s := &GitHubStub{
		repo:    owner + "/" + repo,
		commits: make(map[string]StubCommit),
	}

	prefix := fmt.Sprintf("/repos/%s/%s/commits/", owner, repo)
	mux := http.NewServeMux()
	mux.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		sha, tail, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, prefix), "/")

		s.mu.Lock()
		commit, ok := s.commits[sha]
		s.requests++
		s.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"message": "No commit found for SHA: %s"}`, sha)
			return
		}

		switch tail {
		case "":
			s.writeCommit(w, sha, commit)
		case "pulls":
			s.writePulls(w, commit)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the stub's base URL, suitable for SHIPLOG_GITHUB_API_BASE_URL.
func (s *GitHubStub) URL() string {
	return s.server.URL
}

// Register adds commit metadata the stub will serve for the given hash.
func (s *GitHubStub) Register(sha string, commit StubCommit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits[sha] = commit
}

// RequestCount returns how many metadata requests the stub has served.
func (s *GitHubStub) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *GitHubStub) writeCommit(w http.ResponseWriter, sha string, c StubCommit) {
	payload := map[string]interface{}{
		"sha":      sha,
		"html_url": fmt.Sprintf("https://github.com/%s/commit/%s", s.repo, sha),
		"commit": map[string]interface{}{
			"message": c.Message,
			"author": map[string]string{
				"name":  c.AuthorName,
				"email": c.AuthorEmail,
			},
		},
	}
	if c.AuthorLogin != "" {
		payload["author"] = map[string]string{
			"login":    c.AuthorLogin,
			"html_url": "https://github.com/" + c.AuthorLogin,
		}
	}
	writeJSON(w, payload)
}

func (s *GitHubStub) writePulls(w http.ResponseWriter, c StubCommit) {
	pulls := []map[string]interface{}{}
	if c.PRNumber > 0 {
		pulls = append(pulls, map[string]interface{}{
			"number":    c.PRNumber,
			"html_url":  fmt.Sprintf("https://github.com/%s/pull/%d", s.repo, c.PRNumber),
			"merged_at": "2026-01-01T00:00:00Z",
		})
	}
	writeJSON(w, pulls)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
