// Package testutil provides test utilities and helpers for shiplog tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// shiplogBinaryPath caches the built shiplog binary path.
	shiplogBinaryPath string
	shiplogBuildOnce  sync.Once
	shiplogBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing.
// It manages temp directories and environment sanitization to ensure E2E
// tests never read the developer's own config files or GitHub token.
type E2EEnv struct {
	t         *testing.T
	tempDir   string
	binDir    string
	extraEnv  []string
	cleanedUp bool
}

// CommandResult captures the result of running a shiplog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment. The shiplog binary is built
// once per test session and runs with HOME and XDG_CONFIG_HOME pointed into
// the temp directory.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t}

	env.setup()
	t.Cleanup(env.Cleanup)

	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	tempDir, err := os.MkdirTemp("", "e2e-test-*")
	if err != nil {
		e.t.Fatalf("creating temp directory: %v", err)
	}
	e.tempDir = tempDir

	e.binDir = filepath.Join(tempDir, "bin")
	if err := os.MkdirAll(e.binDir, 0o755); err != nil {
		e.t.Fatalf("creating bin directory: %v", err)
	}

	e.buildShiplog()
}

func (e *E2EEnv) buildShiplog() {
	e.t.Helper()

	// Build shiplog binary once per test session
	shiplogBuildOnce.Do(func() {
		shiplogBinaryPath, shiplogBuildErr = e.doBuildShiplog()
	})

	if shiplogBuildErr != nil {
		e.t.Fatalf("building shiplog: %v", shiplogBuildErr)
	}

	// Link shiplog binary to our bin directory
	shiplogLink := filepath.Join(e.binDir, "shiplog")
	content, err := os.ReadFile(shiplogBinaryPath)
	if err != nil {
		e.t.Fatalf("reading shiplog binary: %v", err)
	}

	if err := os.WriteFile(shiplogLink, content, 0o755); err != nil {
		e.t.Fatalf("writing shiplog binary: %v", err)
	}
}

func (e *E2EEnv) doBuildShiplog() (string, error) {
	// Get repo root
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	// Create a temp directory for the built binary
	tmpDir, err := os.MkdirTemp("", "shiplog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "shiplog")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/shiplog")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building shiplog: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// SetEnv adds an environment variable to the isolated environment, typically
// a SHIPLOG_* override pointing at a stub API server.
func (e *E2EEnv) SetEnv(key, value string) {
	e.extraEnv = append(e.extraEnv, key+"="+value)
}

// Run executes a shiplog command in the isolated E2E environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "shiplog"), args...)
	cmd.Dir = e.tempDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	// PATH passes through so the standard utilities stay available. HOME
	// and XDG_CONFIG_HOME point into the temp directory so the developer's
	// own shiplog config can never leak into a test.
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.tempDir, ".config"),
	}

	safeVars := []string{
		"TERM",
		"LANG",
		"LC_ALL",
		"TMPDIR",
		"TMP",
		"TEMP",
	}

	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	// GITHUB_TOKEN is deliberately never forwarded: tests talk to a stub
	// API server, not github.com. Verified by HasTokenInEnv().

	return append(env, e.extraEnv...)
}

// TempDir returns the root temp directory for this test environment. It is
// the working directory every Run call executes in.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// BinDir returns the bin directory containing the shiplog binary.
func (e *E2EEnv) BinDir() string {
	return e.binDir
}

// HasTokenInEnv returns true if GITHUB_TOKEN is present in the environment.
// This is used to verify that E2E tests properly sanitize the environment.
func (e *E2EEnv) HasTokenInEnv() bool {
	env := e.buildIsolatedEnv()
	for _, v := range env {
		if strings.HasPrefix(v, "GITHUB_TOKEN=") {
			return true
		}
	}
	return false
}

// git runs a git command inside the environment's directory. Fixture
// repositories are built with the git CLI and read back by shiplog through
// go-git, matching how real projects are laid out on disk.
func (e *E2EEnv) git(args ...string) string {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.tempDir
	cmd.Env = append(os.Environ(),
		"HOME="+e.tempDir,
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// InitGitRepo initializes a git repository in the temp directory.
func (e *E2EEnv) InitGitRepo() {
	e.t.Helper()

	e.git("init")
	e.git("config", "user.email", "test@test.com")
	e.git("config", "user.name", "Test")
}

// CommitFile writes a file, commits it with the given message, and returns
// the commit hash.
func (e *E2EEnv) CommitFile(name, content, message string) string {
	e.t.Helper()

	path := filepath.Join(e.tempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", name, err)
	}

	e.git("add", ".")
	e.git("commit", "-m", message)
	return e.git("rev-parse", "HEAD")
}

// Tag creates a lightweight tag at HEAD.
func (e *E2EEnv) Tag(name string) {
	e.t.Helper()
	e.git("tag", name)
}

// SetRemote adds an origin remote with the given URL.
func (e *E2EEnv) SetRemote(url string) {
	e.t.Helper()
	e.git("remote", "add", "origin", url)
}

// WriteChangelog writes CHANGELOG.md in the temp directory.
func (e *E2EEnv) WriteChangelog(content string) {
	e.t.Helper()

	path := filepath.Join(e.tempDir, "CHANGELOG.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing changelog: %v", err)
	}
}

// ReadChangelog returns the current CHANGELOG.md contents.
func (e *E2EEnv) ReadChangelog() string {
	e.t.Helper()

	content, err := os.ReadFile(filepath.Join(e.tempDir, "CHANGELOG.md"))
	if err != nil {
		e.t.Fatalf("reading changelog: %v", err)
	}
	return string(content)
}

// WriteProjectConfig writes .shiplog/config.yml in the temp directory.
func (e *E2EEnv) WriteProjectConfig(content string) {
	e.t.Helper()

	dir := filepath.Join(e.tempDir, ".shiplog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatalf("creating config directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing project config: %v", err)
	}
}

// StatePath returns the path of the run state file shiplog writes after
// generate.
func (e *E2EEnv) StatePath() string {
	return filepath.Join(e.tempDir, ".shiplog", "state.yml")
}

// Cleanup restores the original environment and removes temp files.
func (e *E2EEnv) Cleanup() {
	if e.cleanedUp {
		return
	}
	e.cleanedUp = true

	if e.tempDir != "" {
		if err := os.RemoveAll(e.tempDir); err != nil {
			e.t.Logf("note: could not remove temp directory: %v", err)
		}
	}
}
