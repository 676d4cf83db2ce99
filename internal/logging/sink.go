package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	rotationLayout  = "2006-01-02"
)

// sink is a single append-only log file with daily rotation and bounded
// retention. Writes are serialized by a mutex so concurrent callers never
// interleave lines. All I/O failures degrade to the console writer; a sink
// write never reports an error to its caller.
type sink struct {
	mu        sync.Mutex
	dir       string
	preferred string
	appName   string
	name      string
	retention int
	console   io.Writer
	now       func() time.Time

	file      *os.File
	fileName  string
	openedDay string
}

func newSink(dir, preferred, appName, name string, retention int, console io.Writer, now func() time.Time) *sink {
	return &sink{
		dir:       dir,
		preferred: preferred,
		appName:   appName,
		name:      name,
		retention: retention,
		console:   console,
		now:       now,
	}
}

// write appends a formatted line to the sink, rotating first when the day has
// changed since the file was opened.
func (s *sink) write(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	line := fmt.Sprintf("%s | %s | %s\n", ts.Format(timestampLayout), strings.ToUpper(level), message)

	s.rotateIfNeeded(ts)

	if s.file == nil {
		s.open()
	}
	if s.file == nil {
		// The resolved directory may have been removed or revoked since
		// init. Re-run the directory search once before giving up.
		s.dir = resolveDirectory(s.preferred, s.appName)
		s.open()
	}
	if s.file == nil {
		s.writeConsole(line)
		return
	}

	if _, err := s.file.WriteString(line); err != nil {
		// The file may have been deleted or its directory revoked since open.
		// Re-run the directory search once, then give up to the console.
		s.closeFile()
		s.dir = resolveDirectory(s.preferred, s.appName)
		s.open()
		if s.file != nil {
			if _, err := s.file.WriteString(line); err == nil {
				return
			}
			s.closeFile()
		}
		s.writeConsole(line)
	}
}

// open creates or appends the sink's log file, normalizing permissions.
// On a permission conflict it retries once with a unique alternative filename
// before leaving s.file nil.
func (s *sink) open() {
	day := s.now().Format(rotationLayout)

	for _, name := range []string{s.name, s.alternativeName()} {
		path := filepath.Join(s.dir, name)
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
		if err != nil {
			continue
		}
		fixPermissions(path, false)
		s.file = file
		s.fileName = name
		s.openedDay = day
		// A pre-existing file keeps its own day so it still rotates on the
		// next write after a restart across midnight.
		if info, err := file.Stat(); err == nil && info.Size() > 0 {
			s.openedDay = info.ModTime().Format(rotationLayout)
		}
		return
	}
}

// alternativeName returns a uniquely suffixed filename for permission
// conflicts where the canonical file is owned by another user.
func (s *sink) alternativeName() string {
	base := strings.TrimSuffix(s.name, ".log")
	return fmt.Sprintf("%s_%s.log", base, uuid.NewString()[:8])
}

// rotateIfNeeded renames the current file with its day suffix once the date
// rolls over, then prunes generations beyond the retention window.
func (s *sink) rotateIfNeeded(ts time.Time) {
	if s.file == nil {
		return
	}
	day := ts.Format(rotationLayout)
	if day == s.openedDay {
		return
	}

	rotatedDay := s.openedDay
	s.closeFile()

	current := filepath.Join(s.dir, s.fileName)
	rotated := fmt.Sprintf("%s.%s", current, rotatedDay)
	_ = os.Rename(current, rotated)

	s.prune()
}

// prune removes the oldest rotated generations past the retention limit.
func (s *sink) prune() {
	if s.retention <= 0 {
		return
	}

	pattern := filepath.Join(s.dir, s.name+".*")
	rotated, err := filepath.Glob(pattern)
	if err != nil || len(rotated) <= s.retention {
		return
	}

	// Dated suffixes sort chronologically.
	sort.Strings(rotated)
	for _, path := range rotated[:len(rotated)-s.retention] {
		_ = os.Remove(path)
	}
}

func (s *sink) writeConsole(line string) {
	if s.console == nil {
		return
	}
	_, _ = io.WriteString(s.console, line)
}

func (s *sink) closeFile() {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
}

// close releases the sink's file handle.
func (s *sink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeFile()
}
