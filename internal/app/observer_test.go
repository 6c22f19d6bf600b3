package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/yt-audio-grabber/internal/service/grabber"
)

// TestConsoleObserver_PlainSteps tests progress logging without a terminal.
func TestConsoleObserver_PlainSteps(t *testing.T) {
	t.Parallel()

	var (
		out      bytes.Buffer
		observer = newConsoleObserver(context.Background(), &out, false)
	)

	observer.OnItemProgress(0, grabber.ItemProgress{Known: true, Percent: 10})
	assert.Equal(t, 0, observer.lastStep)

	observer.OnItemProgress(0, grabber.ItemProgress{Known: true, Percent: 60})
	assert.Equal(t, 2, observer.lastStep)

	observer.OnItemProgress(0, grabber.ItemProgress{Known: false, DownloadedBytes: 10})
	assert.Equal(t, 2, observer.lastStep)

	observer.OnItemProgress(1, grabber.ItemProgress{Known: true, Percent: 0})
	assert.Equal(t, 1, observer.barIndex)
	assert.Equal(t, 0, observer.lastStep)

	assert.Nil(t, observer.bar)
	assert.Empty(t, out.String())
}

// TestConsoleObserver_Bar tests the progress bar lifecycle on a terminal.
func TestConsoleObserver_Bar(t *testing.T) {
	t.Parallel()

	var (
		out      bytes.Buffer
		observer = newConsoleObserver(context.Background(), &out, true)
	)

	observer.OnItemProgress(0, grabber.ItemProgress{Known: true, Percent: 50, DownloadedBytes: 500, TotalBytes: 1000})
	assert.NotNil(t, observer.bar)
	assert.Equal(t, int64(1000), observer.bar.GetMax64())

	observer.OnLogLine("Converting: a.webm")
	observer.OnItemConverting("a.webm")
	assert.Nil(t, observer.bar)

	observer.OnItemProgress(1, grabber.ItemProgress{DownloadedBytes: 2048})
	assert.Equal(t, 1, observer.barIndex)

	observer.OnItemProgress(1, grabber.ItemProgress{Known: true, DownloadedBytes: 4096, TotalBytes: 8192})
	assert.Equal(t, int64(8192), observer.bar.GetMax64())

	observer.OnRunFailed(grabber.ErrRunCancelled)
	assert.Nil(t, observer.bar)
	assert.Equal(t, -1, observer.barIndex)
}
