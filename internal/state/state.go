// Package state persists a record of the most recent changelog run.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current version of the state.yml schema.
// Increment this when making breaking changes to the schema.
const SchemaVersion = "1.0.0"

// DefaultFileName is the name of the state file.
const DefaultFileName = "state.yml"

// State represents the contents of .shiplog/state.yml.
// This file tracks the last release shiplog generated in a project.
type State struct {
	// Version is the schema version for future compatibility.
	Version string `yaml:"version"`

	// LastRelease is the version of the most recently generated release.
	LastRelease string `yaml:"last_release"`

	// ReleaseDate is the release date in YYYY-MM-DD form.
	ReleaseDate string `yaml:"release_date"`

	// RangeFrom and RangeTo record the commit range the release covered.
	RangeFrom string `yaml:"range_from"`
	RangeTo   string `yaml:"range_to"`

	// CommitCount is the number of commits inspected in the range.
	CommitCount int `yaml:"commit_count"`

	// EntryCount is the number of entries written to the changelog.
	EntryCount int `yaml:"entry_count"`

	// ShiplogVersion is the version of shiplog that ran generate.
	ShiplogVersion string `yaml:"shiplog_version"`

	// GeneratedAt is when the release section was generated.
	GeneratedAt time.Time `yaml:"generated_at"`
}

// DefaultPath returns the default path for state.yml relative to project root.
// The path is .shiplog/state.yml.
func DefaultPath() string {
	return filepath.Join(".shiplog", DefaultFileName)
}

// Exists checks if state.yml exists at the default location.
func Exists() bool {
	_, err := os.Stat(DefaultPath())
	return err == nil
}

// ExistsAt checks if state.yml exists at the given path.
func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads and parses state.yml from the default location.
// Returns an error if the file doesn't exist or is invalid YAML.
func Load() (*State, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads and parses state.yml from the given path.
// Returns an error if the file doesn't exist or is invalid YAML.
func LoadFrom(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state YAML: %w", err)
	}

	return &st, nil
}

// Save writes the State to the default state.yml location.
// Creates the parent directory if it doesn't exist.
func (s *State) Save() error {
	return s.SaveTo(DefaultPath())
}

// SaveTo writes the State to the given path.
// Creates the parent directory if it doesn't exist.
func (s *State) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}

	return nil
}

// New creates a State stamped with the current schema and tool versions.
// The caller fills in the release fields before saving.
func New(shiplogVersion string) *State {
	return &State{
		Version:        SchemaVersion,
		ShiplogVersion: shiplogVersion,
		GeneratedAt:    time.Now(),
	}
}
