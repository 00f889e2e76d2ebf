// Package logfinder locates the game client's live log file.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vallocal/vallocal-go/internal/platform"
)

// EnvLogFile is the environment variable name for specifying the log file.
const EnvLogFile = "VALLOCAL_LOGFILE"

// ErrLogFileNotFound is returned when no log file candidate exists.
var ErrLogFileNotFound = errors.New("log file not found")

// DefaultLogPaths returns candidate log file paths in priority order.
func DefaultLogPaths() []string {
	dir := platform.LocalDataDir()
	if dir == "" {
		return nil
	}
	return []string{
		filepath.Join(dir, "VALORANT", "Saved", "Logs", "ShooterGame.log"),
	}
}

// FindLogFile returns the path of the live log file.
//
// Priority:
//  1. explicit (if non-empty)
//  2. VALLOCAL_LOGFILE environment variable
//  3. First existing entry of DefaultLogPaths()
//
// The returned path has symlinks resolved for consistency.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveLogFile(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s", ErrLogFileNotFound, explicit)
	}

	if envPath := os.Getenv(EnvLogFile); envPath != "" {
		if resolved := resolveLogFile(envPath); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to missing file", ErrLogFileNotFound, EnvLogFile)
	}

	for _, p := range DefaultLogPaths() {
		if resolved := resolveLogFile(p); resolved != "" {
			return resolved, nil
		}
	}
	return "", ErrLogFileNotFound
}

// resolveLogFile resolves symlinks and checks the target is a regular file.
// Returns the resolved path if valid, empty string otherwise.
func resolveLogFile(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return ""
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return resolved
}
