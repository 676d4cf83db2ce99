package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Access returns a slog front-end over the access sink (debug and info).
func (l *Logger) Access() *slog.Logger {
	return slog.New(&sinkHandler{logger: l, min: slog.LevelDebug})
}

// Errors returns a slog front-end over the error sink (warn and above).
func (l *Logger) Errors() *slog.Logger {
	return slog.New(&sinkHandler{logger: l, min: slog.LevelWarn})
}

// sinkHandler adapts the diagnostic logger to the slog.Handler interface so
// components written against *slog.Logger can log into the rotating sinks.
type sinkHandler struct {
	logger *Logger
	min    slog.Level
	attrs  []slog.Attr
	group  string
}

func (h *sinkHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *sinkHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)

	appendAttr := func(attr slog.Attr) {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, attr.Value.Any())
	}

	for _, attr := range h.attrs {
		appendAttr(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(attr)
		return true
	})

	h.logger.Record(levelName(record.Level), sb.String())
	return nil
}

func (h *sinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *sinkHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
