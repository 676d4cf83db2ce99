package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/svckit/svckit/internal/logging"
)

func testDiagLogger(t *testing.T) *logging.Logger {
	t.Helper()
	diag := logging.New(logging.Options{Directory: t.TempDir()})
	t.Cleanup(diag.Close)
	return diag
}

func TestRunCleanLogs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text-output", func(t *testing.T) {
		diag := testDiagLogger(t)
		diag.Info("warm up the access sink")

		// Plant an old rotated file
		stale := filepath.Join(diag.Directory(), "access.log.2020-01-01")
		require.NoError(t, os.WriteFile(stale, []byte("old\n"), 0o664))
		old := time.Now().Add(-90 * 24 * time.Hour)
		require.NoError(t, os.Chtimes(stale, old, old))

		var out bytes.Buffer
		err := RunCleanLogs(diag, logger, &out, 30, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Deleted 1 rotated log file(s)")
		require.NoFileExists(t, stale)
	})

	t.Run("json-output", func(t *testing.T) {
		diag := testDiagLogger(t)

		var out bytes.Buffer
		err := RunCleanLogs(diag, logger, &out, 30, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 0`)
		require.Contains(t, out.String(), `"directory"`)
	})
}

func TestRunCheckLogPermissions(t *testing.T) {
	diag := testDiagLogger(t)
	diag.Info("create the access sink")
	diag.Error("create the error sink")

	var out bytes.Buffer
	err := RunCheckLogPermissions(diag, &out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Directory: "+diag.Directory())
	require.Contains(t, out.String(), "writable: true")
}

func TestRunRepairLogPermissions(t *testing.T) {
	diag := testDiagLogger(t)
	diag.Info("create the access sink")

	var out bytes.Buffer
	err := RunRepairLogPermissions(diag, &out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Repaired permissions in "+diag.Directory())
}
