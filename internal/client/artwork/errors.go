package artwork

import "errors"

var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrNotAnImage indicates that the loaded content is not an image.
	ErrNotAnImage = errors.New("content is not an image")
	// ErrImageTooLarge indicates that the image exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image is too large")
)
