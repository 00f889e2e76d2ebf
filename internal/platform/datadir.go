// Package platform resolves per-user directories the game client writes to.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// LocalDataDir returns the per-user local application data directory,
// or "" if it cannot be determined.
//
// Windows: %LOCALAPPDATA%, falling back to %USERPROFILE%\AppData\Local.
// macOS: ~/Library/Application Support.
// Others: $XDG_DATA_HOME, falling back to ~/.local/share.
func LocalDataDir() string {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir
		}
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Local")
		}
		return ""
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, "Library", "Application Support")
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".local", "share")
	}
}
