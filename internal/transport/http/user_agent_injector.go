package http

import (
	"net/http"

	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// UserAgentInjector is a http.RoundTripper that sets the User-Agent header of requests that have none.
type UserAgentInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// userAgentProvider supplies the configured User-Agent.
	userAgentProvider utils.UserAgentProvider
}

// userAgentHeader is the HTTP header name for User-Agent.
const userAgentHeader = "User-Agent"

// NewUserAgentInjector creates a UserAgentInjector.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
	}
}

// RoundTrip implements the http.RoundTripper interface.
// When the provider has no User-Agent, DefaultUserAgent is sent.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(userAgentHeader) == "" {
		userAgent := t.userAgentProvider.GetUserAgent()
		if userAgent == "" {
			userAgent = DefaultUserAgent
		}

		req = req.Clone(req.Context())
		req.Header.Set(userAgentHeader, userAgent)
	}

	return t.next.RoundTrip(req)
}
