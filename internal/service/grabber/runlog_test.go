package grabber

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixedRunLog returns a run log whose clock is fixed in a non-UTC zone.
func newFixedRunLog() *RunLog {
	zone := time.FixedZone("KST", 9*60*60)
	runLog := NewRunLog()
	runLog.now = func() time.Time { return time.Date(2024, 3, 5, 16, 4, 5, 0, zone) }

	return runLog
}

// TestRunLog_Flush tests the file name and the entry format.
func TestRunLog_Flush(t *testing.T) {
	t.Parallel()

	var (
		dir    = t.TempDir()
		runLog = newFixedRunLog()
	)

	runLog.Append("Starting download of 1 item(s)")
	runLog.Append("Download finished")

	path, ok := runLog.Flush(context.Background(), dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "download_log_20240305_070405.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[2024-03-05 07:04:05] Starting download of 1 item(s)\n[2024-03-05 07:04:05] Download finished",
		string(content))

	entries := runLog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, time.UTC, entries[0].TimestampUTC.Location())
}

// TestRunLog_FlushEmpty tests that an empty log writes nothing.
func TestRunLog_FlushEmpty(t *testing.T) {
	t.Parallel()

	var (
		dir    = t.TempDir()
		runLog = newFixedRunLog()
	)

	runLog.Append("line")
	runLog.Reset()

	_, ok := runLog.Flush(context.Background(), dir)
	assert.False(t, ok)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

// TestRunLog_FlushFailure tests that write failures are swallowed.
func TestRunLog_FlushFailure(t *testing.T) {
	t.Parallel()

	runLog := newFixedRunLog()
	runLog.Append("line")

	path, ok := runLog.Flush(context.Background(), filepath.Join(t.TempDir(), "missing", "dir"))
	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Len(t, runLog.Entries(), 1)
}
