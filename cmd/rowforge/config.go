package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// appName is the single source of truth for the application name. All
// derived identifiers (env vars, config paths) are computed from it.
const appName = "rowforge"

// envConfigDir is checked before falling back to XDG conventions.
var envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"

// resolveConfigDir returns the base config directory for the application.
// Priority: $ROWFORGE_CONFIG_DIR > $XDG_CONFIG_HOME/rowforge > ~/.config/rowforge
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// resolveExecutionConfigPath returns the path to the execution config file
// (lookup tables and quantize presets) inside dir.
func resolveExecutionConfigPath(dir string) string {
	return filepath.Join(dir, "execution.yml")
}
