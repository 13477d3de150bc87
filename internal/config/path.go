// Package config loads itemizer settings from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// appDir names the per-user directories the itemizer owns.
const appDir = "itemize"

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references. Paths it cannot resolve are returned with only the
// variables expanded.
func ExpandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + rest
		}
	}
	return os.ExpandEnv(path)
}

// DataDir is where run history lives: $XDG_DATA_HOME/itemize, falling back
// to ~/.local/share/itemize.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	return filepath.Join(ExpandPath("~"), ".local", "share", appDir)
}
