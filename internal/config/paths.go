package config

import (
	"os"
	"path/filepath"
)

// projectConfigDir is the per-repository directory shiplog keeps its
// config and run state in.
const projectConfigDir = ".shiplog"

// UserConfigPath returns the user-level config file path, following the
// OS convention (~/.config/shiplog/config.yml on Linux).
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "shiplog", "config.yml"), nil
}

// ProjectConfigDir returns the project-level directory, relative to the
// working directory.
func ProjectConfigDir() string {
	return projectConfigDir
}

// ProjectConfigPath returns the project-level config file path, relative
// to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(projectConfigDir, "config.yml")
}
