// Package state tests persistence of the last-release record.
// Related: internal/state/state.go
// Tags: state, yaml, persistence
package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join(".shiplog", "state.yml"), DefaultPath())
}

func TestExistsAt(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		expected bool
	}{
		"file exists": {
			setup: func(t *testing.T, dir string) {
				t.Helper()
				stateDir := filepath.Join(dir, ".shiplog")
				require.NoError(t, os.MkdirAll(stateDir, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(stateDir, "state.yml"), []byte("version: 1.0.0"), 0o644))
			},
			expected: true,
		},
		"file does not exist": {
			setup:    func(t *testing.T, dir string) {},
			expected: false,
		},
		"directory exists but not file": {
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Join(dir, ".shiplog"), 0o755))
			},
			expected: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tmpDir := t.TempDir()
			tt.setup(t, tmpDir)

			result := ExistsAt(filepath.Join(tmpDir, ".shiplog", "state.yml"))
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoadFrom(t *testing.T) {
	tests := map[string]struct {
		content     string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, s *State)
	}{
		"valid YAML with all fields": {
			content: `version: "1.0.0"
last_release: 1.3.0
release_date: "2026-03-02"
range_from: v1.2.0
range_to: v1.3.0
commit_count: 41
entry_count: 12
shiplog_version: "0.3.1"
generated_at: 2026-03-02T10:00:00Z
`,
			wantErr: false,
			validate: func(t *testing.T, s *State) {
				t.Helper()
				assert.Equal(t, "1.0.0", s.Version)
				assert.Equal(t, "1.3.0", s.LastRelease)
				assert.Equal(t, "2026-03-02", s.ReleaseDate)
				assert.Equal(t, "v1.2.0", s.RangeFrom)
				assert.Equal(t, "v1.3.0", s.RangeTo)
				assert.Equal(t, 41, s.CommitCount)
				assert.Equal(t, 12, s.EntryCount)
				assert.Equal(t, "0.3.1", s.ShiplogVersion)
			},
		},
		"minimal valid YAML": {
			content: `version: "1.0.0"
last_release: 0.1.0
`,
			wantErr: false,
			validate: func(t *testing.T, s *State) {
				t.Helper()
				assert.Equal(t, "0.1.0", s.LastRelease)
				assert.Zero(t, s.CommitCount)
			},
		},
		"invalid YAML syntax": {
			content:     "version: [\n",
			wantErr:     true,
			errContains: "parsing state YAML",
		},
		"empty file": {
			content: "",
			wantErr: false,
			validate: func(t *testing.T, s *State) {
				t.Helper()
				assert.Empty(t, s.Version)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "state.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			st, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, st)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	_, err := LoadFrom(filepath.Join(tmpDir, "nonexistent.yml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading state file")
}

func TestSaveTo(t *testing.T) {
	tests := map[string]struct {
		state       *State
		existingDir bool
		contains    []string
	}{
		"save new file creates directory": {
			state: &State{
				Version:        "1.0.0",
				LastRelease:    "1.3.0",
				ReleaseDate:    "2026-03-02",
				RangeFrom:      "v1.2.0",
				RangeTo:        "HEAD",
				CommitCount:    41,
				EntryCount:     12,
				ShiplogVersion: "0.3.1",
				GeneratedAt:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			},
			existingDir: false,
			contains:    []string{"version: 1.0.0", "last_release: 1.3.0", "range_from: v1.2.0", "commit_count: 41"},
		},
		"save overwrites existing file": {
			state: &State{
				Version:     "1.0.0",
				LastRelease: "2.0.0",
			},
			existingDir: true,
			contains:    []string{"last_release: 2.0.0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tmpDir := t.TempDir()
			subDir := filepath.Join(tmpDir, ".shiplog")
			path := filepath.Join(subDir, "state.yml")

			if tt.existingDir {
				require.NoError(t, os.MkdirAll(subDir, 0o755))
				require.NoError(t, os.WriteFile(path, []byte("last_release: 0.0.1\n"), 0o644))
			}

			err := tt.state.SaveTo(path)
			require.NoError(t, err)
			assert.FileExists(t, path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(data), want)
			}
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "state.yml")

	original := &State{
		Version:        SchemaVersion,
		LastRelease:    "1.3.0",
		ReleaseDate:    "2026-03-02",
		RangeFrom:      "v1.2.0",
		RangeTo:        "v1.3.0",
		CommitCount:    41,
		EntryCount:     12,
		ShiplogVersion: "0.3.1",
		GeneratedAt:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, original.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, original.Version, loaded.Version)
	assert.Equal(t, original.LastRelease, loaded.LastRelease)
	assert.Equal(t, original.RangeFrom, loaded.RangeFrom)
	assert.Equal(t, original.RangeTo, loaded.RangeTo)
	assert.Equal(t, original.CommitCount, loaded.CommitCount)
	assert.Equal(t, original.EntryCount, loaded.EntryCount)
	assert.True(t, original.GeneratedAt.Equal(loaded.GeneratedAt))
}

func TestNew(t *testing.T) {
	t.Parallel()

	before := time.Now()
	st := New("0.3.1")
	after := time.Now()

	assert.Equal(t, SchemaVersion, st.Version)
	assert.Equal(t, "0.3.1", st.ShiplogVersion)
	assert.Empty(t, st.LastRelease) // Must be set by caller
	assert.True(t, st.GeneratedAt.After(before) || st.GeneratedAt.Equal(before))
	assert.True(t, st.GeneratedAt.Before(after) || st.GeneratedAt.Equal(after))
}
