// Package config loads smart-expense settings and resolves the paths they name.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user config directory.
const AppName = "expense"

// ConfigDir returns the directory searched for config.yaml:
// $XDG_CONFIG_HOME/expense when set, ~/.config/expense otherwise.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(xdg) {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ExpandPath resolves a leading ~ and $VAR references in a configured path.
// A path whose home directory cannot be resolved is returned unexpanded.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~", strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}
