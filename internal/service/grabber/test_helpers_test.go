package grabber

import (
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/oshokin/yt-audio-grabber/internal/client/ffmpeg"
	mock_ffmpeg "github.com/oshokin/yt-audio-grabber/internal/client/ffmpeg/mocks"
	mock_ytdlp "github.com/oshokin/yt-audio-grabber/internal/client/ytdlp/mocks"
	"github.com/oshokin/yt-audio-grabber/internal/constants"
)

// recordingObserver stores every event it receives.
type recordingObserver struct {
	mu         sync.Mutex
	overall    [][2]int
	progress   map[int][]ItemProgress
	converting []string
	logLines   []string
	collection []string
	completed  []*RunSummary
	failed     []error
	extraction int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{progress: make(map[int][]ItemProgress)}
}

func (o *recordingObserver) OnExtractionStarted(string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.extraction++
}

func (o *recordingObserver) OnCollectionDetected(title string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.collection = append(o.collection, title)
}

func (o *recordingObserver) OnItemProgress(index int, progress ItemProgress) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.progress[index] = append(o.progress[index], progress)
}

func (o *recordingObserver) OnItemConverting(filename string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.converting = append(o.converting, filename)
}

func (o *recordingObserver) OnOverallProgress(completed, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.overall = append(o.overall, [2]int{completed, total})
}

func (o *recordingObserver) OnRunCompleted(summary *RunSummary) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.completed = append(o.completed, summary)
}

func (o *recordingObserver) OnRunFailed(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.failed = append(o.failed, err)
}

func (o *recordingObserver) OnLogLine(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.logLines = append(o.logLines, text)
}

// testEnv bundles the mocks used by orchestrator and grabber tests.
type testEnv struct {
	client   *mock_ytdlp.MockClient
	locator  *mock_ffmpeg.MockLocator
	observer *recordingObserver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)

	return &testEnv{
		client:   mock_ytdlp.NewMockClient(ctrl),
		locator:  mock_ffmpeg.NewMockLocator(ctrl),
		observer: newRecordingObserver(),
	}
}

// ffmpegFound makes the locator resolve ffmpeg on PATH.
func (e *testEnv) ffmpegFound() {
	e.locator.EXPECT().Locate(gomock.Any()).Return("/usr/bin/ffmpeg", nil).AnyTimes()
}

// ffmpegMissing makes the locator fail.
func (e *testEnv) ffmpegMissing() {
	e.locator.EXPECT().Locate(gomock.Any()).Return("", ffmpeg.ErrTranscoderNotFound).AnyTimes()
}

// testOptions returns run options writing into a temporary directory.
func testOptions(t *testing.T, key constants.FormatKey) *RunOptions {
	t.Helper()

	format, ok := constants.ResolveAudioFormat(string(key))
	if !ok {
		t.Fatalf("unknown format %s", key)
	}

	return &RunOptions{
		OutputDir:      t.TempDir(),
		OutputTemplate: "%(title)s.%(ext)s",
		Format:         format,
		AudioQuality:   "192",
		EmbedThumbnail: true,
	}
}
