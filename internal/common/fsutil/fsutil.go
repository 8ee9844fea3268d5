package fsutil

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by FindExecutable when no candidate resolves.
var ErrNotFound = errors.New("executable not found")

// ExpandHome expands a leading "~" or "~/" to the user's home directory.
// Other paths, including "~user/...", are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/dolly-v2
	return filepath.Join(home, path[2:]), nil
}

// Ext returns the lower-cased extension of path, dot included.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// FindExecutable resolves explicit when set, after home expansion, and
// otherwise the first of names found on PATH.
func FindExecutable(explicit string, names ...string) (string, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		p, err := ExpandHome(p)
		if err != nil {
			return "", err
		}
		fi, err := os.Stat(p)
		if err != nil {
			return "", err
		}
		if fi.IsDir() {
			return "", fmt.Errorf("%s: is a directory", p)
		}
		return p, nil
	}
	for _, name := range names {
		if lp, err := exec.LookPath(name); err == nil {
			return lp, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, strings.Join(names, ", "))
}
