package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStatus describes a single log file's permission state.
type FileStatus struct {
	Exists   bool
	Readable bool
	Writable bool
	Mode     string
}

// PermissionStatus is the report produced by CheckPermissions.
type PermissionStatus struct {
	Directory         string
	DirectoryExists   bool
	DirectoryWritable bool
	Files             map[string]FileStatus
}

// CleanupOlderThan deletes rotated log files whose modification time is more
// than the given number of days in the past. Returns how many files were
// removed; per-file failures are joined into the returned error but do not
// stop the sweep.
func (l *Logger) CleanupOlderThan(days int) (int, error) {
	if days <= 0 {
		days = DefaultRetention
	}
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, err
	}

	var removed int
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	return removed, errors.Join(errs...)
}

// CheckPermissions reports the permission state of the log directory and the
// two sink files. Diagnostic only; it changes nothing.
func (l *Logger) CheckPermissions() PermissionStatus {
	status := PermissionStatus{
		Directory: l.dir,
		Files:     map[string]FileStatus{},
	}

	info, err := os.Stat(l.dir)
	if err != nil || !info.IsDir() {
		return status
	}
	status.DirectoryExists = true
	status.DirectoryWritable = writeTest(l.dir) == nil

	for _, name := range []string{AccessLogName, ErrorLogName} {
		path := filepath.Join(l.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			status.Files[name] = FileStatus{}
			continue
		}

		status.Files[name] = FileStatus{
			Exists:   true,
			Readable: canOpen(path, os.O_RDONLY),
			Writable: canOpen(path, os.O_WRONLY|os.O_APPEND),
			Mode:     info.Mode().Perm().String(),
		}
	}

	return status
}

// RepairPermissions re-applies the canonical modes (0775 directory, 0664
// files) to the log directory and every log file in it. Best-effort: failures
// are joined into the returned error.
func (l *Logger) RepairPermissions() error {
	var errs []error

	if err := os.Chmod(l.dir, dirMode); err != nil {
		errs = append(errs, err)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		errs = append(errs, err)
		return errors.Join(errs...)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), ".log") {
			continue
		}
		if err := os.Chmod(filepath.Join(l.dir, entry.Name()), fileMode); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func canOpen(path string, flag int) bool {
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return false
	}
	_ = file.Close()
	return true
}
