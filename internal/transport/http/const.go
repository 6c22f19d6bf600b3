package http

import "time"

const (
	// DefaultTimeout bounds a whole image download.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no User-Agent is configured.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint: lll

	// DefaultMaxLogLength is the maximum number of bytes of a logged request or response dump.
	DefaultMaxLogLength = 4096
)
