package grabber

import (
	"time"

	"github.com/oshokin/yt-audio-grabber/internal/config"
	"github.com/oshokin/yt-audio-grabber/internal/constants"
)

// MediaItemRef is a single downloadable item.
type MediaItemRef struct {
	// Locator is the primary locator reported by the extractor.
	Locator string
	// AlternateID is used when Locator is empty.
	AlternateID string
	// DisplayTitle is the human-readable title.
	DisplayTitle string
	// DurationSeconds is the media length, when known.
	DurationSeconds *int64
}

// EffectiveLocator returns Locator, or AlternateID when Locator is empty.
func (m MediaItemRef) EffectiveLocator() string {
	if m.Locator != "" {
		return m.Locator
	}

	return m.AlternateID
}

// CollectionDescriptor is an ordered group of items found behind one locator.
type CollectionDescriptor struct {
	// Title is the collection title.
	Title string
	// Items holds the resolvable entries in extraction order.
	Items []MediaItemRef
}

// Resolution is the outcome of routing a locator. Exactly one field is set.
type Resolution struct {
	// Single is set when the locator points to one item.
	Single *MediaItemRef
	// Collection is set when the locator points to a playlist.
	Collection *CollectionDescriptor
}

// RunState is a phase of the run state machine.
type RunState uint8

// Run states.
const (
	// StateIdle means no run is active.
	StateIdle RunState = iota
	// StateExtracting means metadata is being extracted.
	StateExtracting
	// StateSingleItemReady means a single item waits to be downloaded.
	StateSingleItemReady
	// StateAwaitingSelection means a collection waits for the user to pick items.
	StateAwaitingSelection
	// StateDownloading means items are being downloaded.
	StateDownloading
	// StateCompleted means the last run finished.
	StateCompleted
	// StateFailed means the last run ended with a terminal error.
	StateFailed
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateSingleItemReady:
		return "single item ready"
	case StateAwaitingSelection:
		return "awaiting selection"
	case StateDownloading:
		return "downloading"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunOptions holds the settings of one download run.
type RunOptions struct {
	// OutputDir is the destination directory.
	OutputDir string
	// OutputTemplate is the file name template inside OutputDir.
	OutputTemplate string
	// Format is the target audio format.
	Format constants.AudioFormatSpec
	// TranscoderDir is a custom ffmpeg directory. Empty means "resolve from PATH".
	TranscoderDir string
	// AudioQuality is the transcoding quality.
	AudioQuality string
	// EmbedThumbnail embeds the thumbnail when ffmpeg is available.
	EmbedThumbnail bool
	// SpeedLimit is the maximum transfer rate in bytes per second, 0 for none.
	SpeedLimit int64
}

// NewRunOptions builds RunOptions from a validated configuration.
func NewRunOptions(cfg *config.Config) *RunOptions {
	return &RunOptions{
		OutputDir:      cfg.OutputPath,
		OutputTemplate: cfg.OutputTemplate,
		Format:         cfg.Format,
		TranscoderDir:  cfg.FFmpegPath,
		AudioQuality:   cfg.AudioQuality,
		EmbedThumbnail: cfg.EmbedThumbnail,
		SpeedLimit:     cfg.ParsedDownloadSpeedLimit,
	}
}

// RunSummary is the outcome of a download run.
type RunSummary struct {
	// Total is the number of items in the run.
	Total int
	// Succeeded is the number of items downloaded without error.
	Succeeded int
	// Failed is the number of items whose download failed.
	Failed int
	// Cancelled is true when the run was interrupted.
	Cancelled bool
	// BytesTransferred is the sum of the sizes of downloaded files.
	BytesTransferred int64
	// StartTime is when the first item started.
	StartTime time.Time
	// EndTime is when the run ended.
	EndTime time.Time
	// Failures lists the failed items in run order.
	Failures []*ItemTransferError
	// LogPath is the saved run log, empty when nothing was written.
	LogPath string
}

// Attempted returns the number of items that were tried.
func (s *RunSummary) Attempted() int {
	return s.Succeeded + s.Failed
}
