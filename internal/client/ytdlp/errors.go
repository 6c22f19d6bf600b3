package ytdlp

import "errors"

// Static error definitions for better error handling.
var (
	// ErrProbeFailed indicates that metadata extraction failed.
	ErrProbeFailed = errors.New("failed to extract media information")
	// ErrEmptyProbeOutput indicates that yt-dlp printed no metadata.
	ErrEmptyProbeOutput = errors.New("yt-dlp returned no metadata")
	// ErrFetchFailed indicates that a download or conversion failed.
	ErrFetchFailed = errors.New("download failed")
	// ErrEmptyLocator indicates an empty source locator.
	ErrEmptyLocator = errors.New("locator cannot be empty")
)
