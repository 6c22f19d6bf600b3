package grabber

import (
	"errors"
	"fmt"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
)

// Static error definitions for better error handling.
var (
	// ErrRunInProgress indicates that a run is already extracting or downloading.
	ErrRunInProgress = errors.New("a run is already in progress")
	// ErrRunCancelled indicates that the run was interrupted by the user.
	ErrRunCancelled = errors.New("run cancelled")
	// ErrNothingPending indicates that there is no item or selection to act on.
	ErrNothingPending = errors.New("nothing is waiting to be downloaded")
	// ErrEmptyItemList indicates that a run was started without items.
	ErrEmptyItemList = errors.New("item list is empty")
	// ErrSelectionFrozen indicates a mutation after the selection was confirmed or cancelled.
	ErrSelectionFrozen = errors.New("selection is already confirmed or cancelled")
	// ErrIndexOutOfRange indicates an invalid selection index.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ResolutionError indicates that the metadata of a locator could not be extracted.
type ResolutionError struct {
	// Locator is the source that failed.
	Locator string
	// Err is the extractor error.
	Err error
}

// Error returns the error message.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve '%s': %v", e.Locator, e.Err)
}

// Unwrap returns the extractor error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// PreflightError indicates that the selected format needs ffmpeg and none was found.
type PreflightError struct {
	// Format is the selected format.
	Format constants.FormatKey
	// Hint is the install command for the current platform.
	Hint string
	// Err is the lookup error.
	Err error
}

// Error returns the error message.
func (e *PreflightError) Error() string {
	return fmt.Sprintf("format '%s' requires ffmpeg (%v); install it with '%s' or set ffmpeg_path",
		e.Format, e.Err, e.Hint)
}

// Unwrap returns the lookup error.
func (e *PreflightError) Unwrap() error {
	return e.Err
}

// ItemTransferError records a single failed item of a run.
type ItemTransferError struct {
	// Index is the 0-based position of the item in the run.
	Index int
	// Locator is the item locator.
	Locator string
	// Err is the download error.
	Err error
}

// Error returns the error message.
func (e *ItemTransferError) Error() string {
	return fmt.Sprintf("item %d (%s): %v", e.Index+1, e.Locator, e.Err)
}

// Unwrap returns the download error.
func (e *ItemTransferError) Unwrap() error {
	return e.Err
}
