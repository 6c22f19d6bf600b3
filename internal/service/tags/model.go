package tags

import (
	"errors"
	"fmt"
)

// TagRecord is the editable metadata of one audio file.
// Track is free-form text even though most containers store an integer.
type TagRecord struct {
	// Artist is the performing artist.
	Artist string
	// Album is the album or collection title.
	Album string
	// Title is the track title.
	Title string
	// Track is the track number.
	Track string
}

// IsEmpty reports whether every field is blank.
func (r TagRecord) IsEmpty() bool {
	return r == TagRecord{}
}

// Cover is an image embedded into an audio file as its front cover.
type Cover struct {
	// Data holds the encoded image.
	Data []byte
	// MIMEType is the image type, for example "image/png".
	MIMEType string
}

// Static error definitions for better error handling.
var (
	// ErrUnsupportedFormat indicates a file extension with no registered codec.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrCoverUnsupported indicates a codec that cannot embed cover art.
	ErrCoverUnsupported = errors.New("cover art is not supported for this format")
	// ErrUnknownFile indicates a path that is not part of the working set.
	ErrUnknownFile = errors.New("file is not part of the working set")
	// ErrOrderMismatch indicates a new order that is not a permutation of the current files.
	ErrOrderMismatch = errors.New("new order must contain exactly the current files")
	// ErrMissingTrackAtom indicates an MP4 file that has no track atom after a write.
	ErrMissingTrackAtom = errors.New("mp4 track atom not found")
)

// WriteError reports a failed tag write for one file.
type WriteError struct {
	// Path is the file that could not be written.
	Path string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write tags to %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error {
	return e.Err
}
