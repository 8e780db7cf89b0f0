// Package git provides the local repository operations shiplog needs:
// resolving commit ranges between release tags, reading tag dates, and
// discovering the hosted repository from the origin remote. It uses the
// go-git library exclusively, so no git binary is required at runtime.
package git

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/shiplog-dev/shiplog/internal/changelog"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default, it's a no-op. Set it via SetDebugLogger to enable
// debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations. Pass nil to
// disable debug logging. The logger function should format and output the
// message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository is an opened local git repository.
type Repository struct {
	repo *gogit.Repository
}

// Open opens the git repository at path, traversing up the directory tree to
// find the repository root. If path is empty, the current working directory
// is used.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return &Repository{repo: repo}, nil
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := Open(path)
	result := err == nil
	logDebug("[git] IsRepository: %v", result)
	return result
}

// Root returns the absolute path of the repository's working tree root.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// CommitsBetween returns the hashes of commits reachable from to but not
// from from, oldest first. The from boundary is exclusive and the to
// boundary inclusive, matching "git log from..to". An empty from means the
// walk covers to's entire history; an empty to means HEAD.
func (r *Repository) CommitsBetween(from, to string) ([]string, error) {
	toCommit, err := r.resolveCommit(to)
	if err != nil {
		return nil, err
	}

	exclude := make(map[plumbing.Hash]bool)
	if from != "" {
		fromCommit, err := r.resolveCommit(from)
		if err != nil {
			return nil, err
		}
		if err := r.markReachable(fromCommit.Hash, exclude); err != nil {
			return nil, err
		}
	}

	iter, err := r.repo.Log(&gogit.LogOptions{
		From:  toCommit.Hash,
		Order: gogit.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", to, err)
	}
	defer iter.Close()

	var hashes []string
	err = iter.ForEach(func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		hashes = append(hashes, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting commits: %w", err)
	}

	// The log walks newest first; the changelog wants oldest first.
	for i, j := 0, len(hashes)-1; i < j; i, j = i+1, j-1 {
		hashes[i], hashes[j] = hashes[j], hashes[i]
	}

	logDebug("[git] CommitsBetween %s..%s: %d commits", from, to, len(hashes))
	return hashes, nil
}

// markReachable records every commit reachable from hash into set.
func (r *Repository) markReachable(hash plumbing.Hash, set map[plumbing.Hash]bool) error {
	iter, err := r.repo.Log(&gogit.LogOptions{From: hash})
	if err != nil {
		return fmt.Errorf("walking history from %s: %w", hash, err)
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		set[c.Hash] = true
		return nil
	})
}

// CommitDate returns the calendar date of the commit a revision points to.
// Annotated tags are peeled to their target commit.
func (r *Repository) CommitDate(rev string) (time.Time, error) {
	commit, err := r.resolveCommit(rev)
	if err != nil {
		return time.Time{}, err
	}
	return commit.Committer.When, nil
}

// LatestVersionTag returns the highest semantic version tag in the
// repository. The boolean reports whether any version tag exists.
func (r *Repository) LatestVersionTag() (string, bool, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return "", false, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var best string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !changelog.IsSemver(name) {
			return nil
		}
		if best == "" {
			best = name
			return nil
		}
		if cmp, err := changelog.CompareVersions(name, best); err == nil && cmp > 0 {
			best = name
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("iterating tags: %w", err)
	}

	logDebug("[git] LatestVersionTag: %q", best)
	return best, best != "", nil
}

// resolveCommit turns a revision string (tag name, branch, SHA, HEAD) into
// its commit, peeling annotated tags. An empty revision means HEAD.
func (r *Repository) resolveCommit(rev string) (*object.Commit, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	return r.peelToCommit(*hash)
}

// peelToCommit resolves a hash to its commit, unwrapping annotated tag
// objects.
func (r *Repository) peelToCommit(hash plumbing.Hash) (*object.Commit, error) {
	if tag, err := r.repo.TagObject(hash); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return nil, fmt.Errorf("peeling tag %s: %w", tag.Name, err)
		}
		return commit, nil
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return commit, nil
}

// RemoteRepo identifies a hosted repository by owner and name.
type RemoteRepo struct {
	Owner string
	Name  string
}

// String returns the "owner/name" form.
func (r RemoteRepo) String() string {
	return r.Owner + "/" + r.Name
}

// OriginRepo parses the origin remote's URL into the hosted owner/name pair.
func (r *Repository) OriginRepo() (RemoteRepo, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return RemoteRepo{}, fmt.Errorf("looking up origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return RemoteRepo{}, fmt.Errorf("origin remote has no URL")
	}
	return ParseRemoteURL(urls[0])
}

// remoteURLPatterns cover the common hosted-repository URL shapes:
// SCP-style SSH, ssh://, and https://.
var remoteURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@[^:]+:([^/]+)/(.+?)(?:\.git)?$`),
	regexp.MustCompile(`^(?:git\+)?ssh://(?:[^@/]+@)?[^/]+/([^/]+)/(.+?)(?:\.git)?$`),
	regexp.MustCompile(`^https?://[^/]+/([^/]+)/(.+?)(?:\.git)?/?$`),
}

// ParseRemoteURL extracts the owner and repository name from a remote URL.
func ParseRemoteURL(url string) (RemoteRepo, error) {
	url = strings.TrimSpace(url)
	for _, p := range remoteURLPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return RemoteRepo{Owner: m[1], Name: m[2]}, nil
		}
	}
	return RemoteRepo{}, fmt.Errorf("cannot parse remote URL %q", url)
}
