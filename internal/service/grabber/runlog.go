package grabber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
)

const (
	// runLogFilePrefix starts the name of every run log file.
	runLogFilePrefix = "download_log_"
	// runLogFileTimeLayout formats the run timestamp in the file name.
	runLogFileTimeLayout = "20060102_150405"
	// runLogEntryTimeLayout formats the timestamp of each entry.
	runLogEntryTimeLayout = "2006-01-02 15:04:05"
)

// RunLogEntry is a single timestamped line of the run log.
type RunLogEntry struct {
	// TimestampUTC is when the line was appended.
	TimestampUTC time.Time
	// Message is the line text.
	Message string
}

// String formats the entry as it is written to the log file.
func (e RunLogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.TimestampUTC.Format(runLogEntryTimeLayout), e.Message)
}

// RunLog is the append-only log of the current run. It is safe for concurrent use.
type RunLog struct {
	mu      sync.Mutex
	entries []RunLogEntry
	now     func() time.Time
}

// NewRunLog creates an empty run log.
func NewRunLog() *RunLog {
	return &RunLog{now: time.Now}
}

// Reset drops every entry.
func (l *RunLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

// Append adds a line stamped with the current UTC time.
func (l *RunLog) Append(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, RunLogEntry{
		TimestampUTC: l.now().UTC(),
		Message:      message,
	})
}

// Entries returns a copy of the entries.
func (l *RunLog) Entries() []RunLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]RunLogEntry, len(l.entries))
	copy(result, l.entries)

	return result
}

// Flush writes the entries to a timestamped file in dir and returns its path.
// An empty log is not written. Write failures are only logged at debug level.
func (l *RunLog) Flush(ctx context.Context, dir string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return "", false
	}

	lines := make([]string, len(l.entries))
	for i, entry := range l.entries {
		lines[i] = entry.String()
	}

	filename := runLogFilePrefix + l.now().UTC().Format(runLogFileTimeLayout) + constants.ExtensionTXT
	path := filepath.Join(dir, filename)

	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), constants.DefaultFilePermissions)
	if err != nil {
		logger.Debugf(ctx, "Failed to save run log to %s: %v", path, err)

		return "", false
	}

	return path, true
}
