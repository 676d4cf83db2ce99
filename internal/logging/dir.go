package logging

import (
	"os"
	"path/filepath"
)

const (
	dirMode  = os.FileMode(0o775)
	fileMode = os.FileMode(0o664)
)

// resolveDirectory returns the first usable log directory from the fallback
// chain: preferred dir, a dot directory under the user home, the system temp
// directory, the current working directory, and finally a fresh ephemeral
// directory. Each candidate must pass a write test before being chosen.
//
// The search is idempotent and safe to repeat if the chosen directory later
// becomes unwritable.
func resolveDirectory(preferred, appName string) string {
	var candidates []string

	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+appName, "logs"))
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), appName+"_logs"))
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "logs"))
	}

	for _, dir := range candidates {
		if err := ensureDirectory(dir); err == nil {
			return dir
		}
	}

	// Last resort: a throwaway temp directory. MkdirTemp only fails when the
	// system temp dir itself is broken; return the path regardless and let the
	// sink fall back to console output.
	dir, err := os.MkdirTemp("", appName+"_logs_")
	if err != nil {
		return os.TempDir()
	}
	return dir
}

// ensureDirectory creates the directory if needed, normalizes its permissions,
// and verifies write access with a throwaway file.
func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}
	fixPermissions(dir, true)
	return writeTest(dir)
}

// writeTest verifies the directory accepts new files.
func writeTest(dir string) error {
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), fileMode); err != nil {
		return err
	}
	return os.Remove(probe)
}

// fixPermissions normalizes a path to 0775 (directories) or 0664 (files).
// Best-effort: failures are ignored, repair is retried by RepairPermissions.
func fixPermissions(path string, isDir bool) {
	mode := fileMode
	if isDir {
		mode = dirMode
	}
	_ = os.Chmod(path, mode)
}
