// Package logging provides the diagnostic file logger: two leveled sinks
// (access for debug/info, error for warning and above) backed by daily-rotating
// files with bounded retention, a multi-step directory fallback chain, and
// best-effort permission repair.
//
// The one guarantee every caller can rely on: Record never fails outward.
// When the preferred directory is unusable the logger walks the fallback chain
// and, as absolute last resort, writes to the console stream.
package logging

import (
	"io"
	"os"
	"strings"
	"time"
)

// Default file names for the two sinks.
const (
	AccessLogName = "access.log"
	ErrorLogName  = "error.log"
)

// DefaultRetention is the number of rotated generations kept per sink.
const DefaultRetention = 30

// Options configures a Logger. The zero value is usable: all fields have
// working defaults.
type Options struct {
	// Directory is the preferred base directory for log files.
	Directory string
	// RetentionDays caps the rotated generations kept per sink.
	RetentionDays int
	// AppName scopes the fallback directories (e.g., ~/.<AppName>/logs).
	AppName string
	// Console is the last-resort output stream. Defaults to os.Stderr.
	Console io.Writer
	// Clock overrides the time source for tests.
	Clock func() time.Time
}

// Logger is the diagnostic logger. Safe for concurrent use; each sink
// serializes its own writes.
type Logger struct {
	dir    string
	access *sink
	errors *sink
}

// New builds a Logger. It never fails: directory resolution walks the fallback
// chain and the sinks degrade to console output when no directory is writable.
func New(opts Options) *Logger {
	if opts.AppName == "" {
		opts.AppName = "svckit"
	}
	if opts.RetentionDays == 0 {
		opts.RetentionDays = DefaultRetention
	}
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	dir := resolveDirectory(opts.Directory, opts.AppName)

	return &Logger{
		dir: dir,
		access: newSink(
			dir, opts.Directory, opts.AppName, AccessLogName,
			opts.RetentionDays, opts.Console, opts.Clock,
		),
		errors: newSink(
			dir, opts.Directory, opts.AppName, ErrorLogName,
			opts.RetentionDays, opts.Console, opts.Clock,
		),
	}
}

// Directory returns the effective log directory chosen by the fallback search.
func (l *Logger) Directory() string {
	return l.dir
}

// Record appends a message to the sink matching the level: debug/info go to
// the access sink, warn/warning/error/critical to the error sink. Unknown
// levels are redirected to the error sink with a tagged prefix instead of
// being dropped. Record never returns or raises an error.
func (l *Logger) Record(level, message string) {
	level = strings.ToLower(strings.TrimSpace(level))

	switch level {
	case "debug", "info":
		l.access.write(level, message)
	case "warn", "warning":
		l.errors.write("warning", message)
	case "error", "critical":
		l.errors.write(level, message)
	default:
		l.errors.write("error", "[UNKNOWN_LEVEL:"+level+"] "+message)
	}
}

// Debug logs a debug message to the access sink.
func (l *Logger) Debug(message string) { l.Record("debug", message) }

// Info logs an info message to the access sink.
func (l *Logger) Info(message string) { l.Record("info", message) }

// Warning logs a warning message to the error sink.
func (l *Logger) Warning(message string) { l.Record("warn", message) }

// Error logs an error message to the error sink.
func (l *Logger) Error(message string) { l.Record("error", message) }

// Critical logs a critical message to the error sink.
func (l *Logger) Critical(message string) { l.Record("critical", message) }

// Close releases both sinks' file handles.
func (l *Logger) Close() {
	l.access.close()
	l.errors.close()
}
