// Package dirs provides XDG Base Directory Specification compliant paths
// for all wayfinder directories.
package dirs

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the wayfinder configuration directory.
// Resolution order: XDG_CONFIG_HOME/wayfinder > ~/.config/wayfinder.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wayfinder")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "wayfinder")
	}
	return filepath.Join(home, ".config", "wayfinder")
}

// StateDir returns the wayfinder state directory.
// Resolution order: WAYFINDER_STATE_DIR > XDG_STATE_HOME/wayfinder > ~/.local/state/wayfinder.
func StateDir() string {
	if dir := os.Getenv("WAYFINDER_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "wayfinder")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "state", "wayfinder")
	}
	return filepath.Join(home, ".local", "state", "wayfinder")
}

// StoreFile returns the default location of a store file named name
// inside the state directory.
func StoreFile(name string) string {
	return filepath.Join(StateDir(), name)
}
