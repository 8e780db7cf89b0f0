package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo is a disposable repository with helpers for building linear
// histories with controlled commit times.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &testRepo{
		t:    t,
		dir:  dir,
		repo: repo,
		wt:   wt,
		when: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commit writes a file and commits it, advancing the clock so commit order
// is unambiguous.
func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()
	r.when = r.when.Add(time.Minute)

	name := "file.txt"
	require.NoError(r.t, os.WriteFile(filepath.Join(r.dir, name), []byte(message), 0o644))
	_, err := r.wt.Add(name)
	require.NoError(r.t, err)

	hash, err := r.wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  r.when,
		},
	})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func (r *testRepo) annotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  r.when.Add(time.Hour),
		},
		Message: "release " + name,
	})
	require.NoError(r.t, err)
}

func (r *testRepo) open() *Repository {
	r.t.Helper()
	repo, err := Open(r.dir)
	require.NoError(r.t, err)
	return repo
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestIsRepository(t *testing.T) {
	fixture := newTestRepo(t)
	fixture.commit("fix: something")

	assert.True(t, IsRepository(fixture.dir))
	assert.False(t, IsRepository(t.TempDir()))
}

func TestOpenDetectsDotGitFromSubdirectory(t *testing.T) {
	fixture := newTestRepo(t)
	fixture.commit("fix: something")

	sub := filepath.Join(fixture.dir, "internal", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub)
	require.NoError(t, err)

	root, err := repo.Root()
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(fixture.dir)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestCommitsBetweenFullHistory(t *testing.T) {
	fixture := newTestRepo(t)
	first := fixture.commit("feat: one")
	second := fixture.commit("fix: two")
	third := fixture.commit("docs: three")

	repo := fixture.open()
	hashes, err := repo.CommitsBetween("", "")
	require.NoError(t, err)

	require.Len(t, hashes, 3)
	assert.Equal(t, first.String(), hashes[0], "oldest commit first")
	assert.Equal(t, second.String(), hashes[1])
	assert.Equal(t, third.String(), hashes[2])
}

func TestCommitsBetweenExcludesFromBoundary(t *testing.T) {
	fixture := newTestRepo(t)
	base := fixture.commit("feat: base")
	fixture.tag("v1.0.0", base)
	next := fixture.commit("fix: next")
	last := fixture.commit("feat: last")

	repo := fixture.open()
	hashes, err := repo.CommitsBetween("v1.0.0", "")
	require.NoError(t, err)

	require.Len(t, hashes, 2)
	assert.Equal(t, next.String(), hashes[0])
	assert.Equal(t, last.String(), hashes[1])
}

func TestCommitsBetweenTagBoundaries(t *testing.T) {
	fixture := newTestRepo(t)
	base := fixture.commit("feat: base")
	fixture.tag("v1.0.0", base)
	mid := fixture.commit("fix: mid")
	tagged := fixture.commit("feat: tagged")
	fixture.tag("v1.1.0", tagged)
	fixture.commit("fix: after")

	repo := fixture.open()
	hashes, err := repo.CommitsBetween("v1.0.0", "v1.1.0")
	require.NoError(t, err)

	require.Len(t, hashes, 2)
	assert.Equal(t, mid.String(), hashes[0])
	assert.Equal(t, tagged.String(), hashes[1], "to boundary is inclusive")
}

func TestCommitsBetweenEmptyRange(t *testing.T) {
	fixture := newTestRepo(t)
	only := fixture.commit("feat: only")
	fixture.tag("v1.0.0", only)

	repo := fixture.open()
	hashes, err := repo.CommitsBetween("v1.0.0", "v1.0.0")
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func TestCommitsBetweenUnknownRevision(t *testing.T) {
	fixture := newTestRepo(t)
	fixture.commit("feat: one")

	repo := fixture.open()
	_, err := repo.CommitsBetween("v9.9.9", "")
	assert.Error(t, err)
}

func TestCommitDate(t *testing.T) {
	fixture := newTestRepo(t)
	hash := fixture.commit("feat: dated")
	fixture.tag("v1.0.0", hash)

	repo := fixture.open()
	date, err := repo.CommitDate("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, fixture.when, date.UTC())
}

func TestCommitDatePeelsAnnotatedTag(t *testing.T) {
	fixture := newTestRepo(t)
	hash := fixture.commit("feat: dated")
	commitTime := fixture.when
	fixture.annotatedTag("v2.0.0", hash)

	repo := fixture.open()
	date, err := repo.CommitDate("v2.0.0")
	require.NoError(t, err)
	assert.Equal(t, commitTime, date.UTC(), "annotated tag resolves to its commit's date, not the tag's")
}

func TestLatestVersionTag(t *testing.T) {
	fixture := newTestRepo(t)
	a := fixture.commit("feat: a")
	fixture.tag("v1.2.0", a)
	b := fixture.commit("feat: b")
	fixture.tag("v1.10.0", b)
	c := fixture.commit("feat: c")
	fixture.tag("nightly-build", c)

	repo := fixture.open()
	tag, ok, err := repo.LatestVersionTag()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1.10.0", tag, "versions compare numerically, not lexically")
}

func TestLatestVersionTagNone(t *testing.T) {
	fixture := newTestRepo(t)
	fixture.commit("feat: untagged")

	repo := fixture.open()
	_, ok, err := repo.LatestVersionTag()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOriginRepo(t *testing.T) {
	fixture := newTestRepo(t)
	fixture.commit("feat: one")
	_, err := fixture.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/acme/widget.git"},
	})
	require.NoError(t, err)

	repo := fixture.open()
	remote, err := repo.OriginRepo()
	require.NoError(t, err)
	assert.Equal(t, "acme", remote.Owner)
	assert.Equal(t, "widget", remote.Name)
	assert.Equal(t, "acme/widget", remote.String())
}

func TestOriginRepoMissing(t *testing.T) {
	fixture := newTestRepo(t)
	fixture.commit("feat: one")

	repo := fixture.open()
	_, err := repo.OriginRepo()
	assert.Error(t, err)
}

func TestParseRemoteURL(t *testing.T) {
	tests := map[string]struct {
		url       string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		"https":                {url: "https://github.com/acme/widget", wantOwner: "acme", wantName: "widget"},
		"https with .git":      {url: "https://github.com/acme/widget.git", wantOwner: "acme", wantName: "widget"},
		"https trailing slash": {url: "https://github.com/acme/widget/", wantOwner: "acme", wantName: "widget"},
		"scp style ssh":        {url: "git@github.com:acme/widget.git", wantOwner: "acme", wantName: "widget"},
		"scp without .git":     {url: "git@github.com:acme/widget", wantOwner: "acme", wantName: "widget"},
		"ssh scheme":           {url: "ssh://git@github.com/acme/widget.git", wantOwner: "acme", wantName: "widget"},
		"git+ssh scheme":       {url: "git+ssh://git@github.com/acme/widget.git", wantOwner: "acme", wantName: "widget"},
		"not a remote":         {url: "/home/user/repos/widget", wantErr: true},
		"empty":                {url: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			remote, err := ParseRemoteURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, remote.Owner)
			assert.Equal(t, tt.wantName, remote.Name)
		})
	}
}
