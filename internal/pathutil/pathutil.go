package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultStateDirName = ".sillytavern-diary"

// ExpandHomePath rewrites a leading "~" to the current user's home directory.
// Paths without the prefix are returned unchanged.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ResolveStateDir returns the configured state root, falling back to
// ~/.sillytavern-diary when the configured value is empty.
func ResolveStateDir(configured string) string {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		return ExpandHomePath(configured)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, defaultStateDirName)
	}
	return defaultStateDirName
}

// ResolveStateChildDir resolves a child directory under the state root.
// A non-empty configured child overrides the default name; absolute child
// paths are honored as-is.
func ResolveStateChildDir(stateDir, configuredChild, defaultChild string) string {
	child := strings.TrimSpace(configuredChild)
	if child == "" {
		child = defaultChild
	}
	child = ExpandHomePath(child)
	if filepath.IsAbs(child) {
		return child
	}
	return filepath.Join(ResolveStateDir(stateDir), child)
}
