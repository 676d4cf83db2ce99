package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/svckit/svckit/internal/logging"
)

// RunCheckLogPermissions reports read/write access to the log directory and
// its sink files.
func RunCheckLogPermissions(diag *logging.Logger, w io.Writer) error {
	status := diag.CheckPermissions()

	fmt.Fprintf(w, "Directory: %s\n", status.Directory)
	fmt.Fprintf(w, "  exists:   %t\n", status.DirectoryExists)
	fmt.Fprintf(w, "  writable: %t\n", status.DirectoryWritable)

	names := make([]string, 0, len(status.Files))
	for name := range status.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		file := status.Files[name]
		fmt.Fprintf(w, "File: %s\n", name)
		fmt.Fprintf(w, "  exists:   %t\n", file.Exists)
		fmt.Fprintf(w, "  readable: %t\n", file.Readable)
		fmt.Fprintf(w, "  writable: %t\n", file.Writable)
		if file.Mode != "" {
			fmt.Fprintf(w, "  mode:     %s\n", file.Mode)
		}
	}

	if !status.DirectoryWritable {
		return fmt.Errorf("log directory %s is not writable", status.Directory)
	}
	return nil
}

// RunRepairLogPermissions restores the expected permissions on the log
// directory and its sink files.
func RunRepairLogPermissions(diag *logging.Logger, w io.Writer) error {
	if err := diag.RepairPermissions(); err != nil {
		return fmt.Errorf("failed to repair log permissions: %w", err)
	}

	fmt.Fprintf(w, "Repaired permissions in %s\n", diag.Directory())
	return nil
}
