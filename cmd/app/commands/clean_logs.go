package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/svckit/svckit/internal/logging"
)

// RunCleanLogs deletes rotated log files older than the specified number of
// days. A non-positive days value falls back to the default retention.
// Supports both text and JSON output formats.
func RunCleanLogs(
	diag *logging.Logger,
	logger *slog.Logger,
	w io.Writer,
	days int,
	format string,
) error {
	logger.Info("cleaning rotated logs",
		slog.Int("days", days),
		slog.String("directory", diag.Directory()),
	)

	count, err := diag.CleanupOlderThan(days)
	if err != nil {
		return fmt.Errorf("failed to clean rotated logs: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"count":     count,
			"days":      days,
			"directory": diag.Directory(),
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Deleted %d rotated log file(s) from %s\n", count, diag.Directory())
	}

	logger.Info("log cleanup completed", slog.Int("count", count))
	return nil
}
