package ytdlp

import (
	"time"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
)

// ProbeResult is the metadata of a locator, extracted without downloading.
type ProbeResult struct {
	// ID is the extractor-specific identifier.
	ID string
	// Title is the media or playlist title.
	Title string
	// URL is the direct locator of the entry, if the extractor reported one.
	URL string
	// WebpageURL is the page the entry was extracted from.
	WebpageURL string
	// DurationSeconds is the media length, when known.
	DurationSeconds *int64
	// Entries holds the children of a playlist. Unresolvable children are nil.
	Entries []*ProbeResult
}

// HasEntries reports whether the result describes a collection.
func (r *ProbeResult) HasEntries() bool {
	return len(r.Entries) > 0
}

// ProgressStatus is the phase a download is in.
type ProgressStatus uint8

const (
	// ProgressDownloading is emitted while bytes are transferred.
	ProgressDownloading ProgressStatus = iota + 1
	// ProgressFinished is emitted once the file is downloaded, before post-processing.
	ProgressFinished
	// ProgressPostProcessing is emitted while ffmpeg converts or tags the file.
	ProgressPostProcessing
	// ProgressError is emitted when yt-dlp reports a failed transfer.
	ProgressError
)

// ProgressEvent is a single progress report of a download.
type ProgressEvent struct {
	// Status is the current phase.
	Status ProgressStatus
	// Title is the media title, when known.
	Title string
	// Filename is the file being written.
	Filename string
	// DownloadedBytes is the number of bytes transferred so far.
	DownloadedBytes int64
	// TotalBytes is the expected size, or 0 when unknown.
	TotalBytes int64
	// ETA is the estimated remaining time, or 0 when unknown.
	ETA time.Duration
}

// Percent returns the completion percentage and whether the total size is known.
func (e ProgressEvent) Percent() (float64, bool) {
	if e.TotalBytes <= 0 {
		return 0, false
	}

	percent := float64(e.DownloadedBytes) / float64(e.TotalBytes) * 100 //nolint:mnd // Percent scale.

	return min(percent, 100), true //nolint:mnd // Percent scale.
}

// FetchOptions controls a single download.
type FetchOptions struct {
	// OutputDir is the destination directory.
	OutputDir string
	// OutputTemplate is the yt-dlp file name template inside OutputDir.
	OutputTemplate string
	// Format is the target audio format.
	Format constants.AudioFormatSpec
	// AudioQuality is the transcoding quality.
	AudioQuality string
	// TranscoderLocation is the ffmpeg binary or its directory. Empty disables
	// every post-processing step that needs ffmpeg.
	TranscoderLocation string
	// EmbedThumbnail writes, converts and embeds the thumbnail.
	EmbedThumbnail bool
	// SpeedLimit is the maximum transfer rate in bytes per second, 0 for none.
	SpeedLimit int64
	// ContinueOnError keeps yt-dlp going past errors inside the locator.
	ContinueOnError bool
}
