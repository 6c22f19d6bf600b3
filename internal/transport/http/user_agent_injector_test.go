package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/yt-audio-grabber/internal/utils"
	mock_utils "github.com/oshokin/yt-audio-grabber/internal/utils/mocks"
)

// newUserAgentServer returns a server that sends every received User-Agent to the returned channel.
func newUserAgentServer(t *testing.T) (*httptest.Server, <-chan string) {
	t.Helper()

	received := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Header.Get(userAgentHeader)

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return server, received
}

// TestUserAgentInjector_RoundTrip tests which User-Agent reaches the server.
func TestUserAgentInjector_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		requestUA   string
		providerUA  string
		callsUA     int
		expectedUA  string
		expectClone bool
	}{
		{
			name:       "existing header is kept",
			requestUA:  "ExistingAgent/1.0",
			expectedUA: "ExistingAgent/1.0",
		},
		{
			name:        "configured agent is injected",
			providerUA:  "TestAgent/1.0",
			callsUA:     1,
			expectedUA:  "TestAgent/1.0",
			expectClone: true,
		},
		{
			name:        "default agent when none is configured",
			callsUA:     1,
			expectedUA:  DefaultUserAgent,
			expectClone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)

			mockProvider := mock_utils.NewMockUserAgentProvider(ctrl)
			mockProvider.EXPECT().GetUserAgent().Return(tt.providerUA).Times(tt.callsUA)

			server, received := newUserAgentServer(t)
			injector := NewUserAgentInjector(http.DefaultTransport, mockProvider)

			req, err := http.NewRequest(http.MethodGet, server.URL, nil) //nolint:noctx // Test code, context not needed.
			require.NoError(t, err)

			if tt.requestUA != "" {
				req.Header.Set(userAgentHeader, tt.requestUA)
			}

			resp, err := injector.RoundTrip(req)
			require.NoError(t, err)

			defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.expectedUA, <-received)

			if tt.expectClone {
				assert.Empty(t, req.Header.Get(userAgentHeader), "the caller's request must not be modified")
			}
		})
	}
}

// TestUserAgentInjector_RoundTrip_ErrorHandling tests error handling in RoundTrip.
func TestUserAgentInjector_RoundTrip_ErrorHandling(t *testing.T) {
	t.Parallel()

	injector := NewUserAgentInjector(http.DefaultTransport, utils.NewConfiguredUserAgentProvider("TestAgent/1.0"))

	req, err := http.NewRequest(http.MethodGet, "http://[::1]:0", nil) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	resp, err := injector.RoundTrip(req) //nolint:bodyclose // Body is empty on error.
	require.Error(t, err)
	assert.Nil(t, resp)
}

// TestLogTransport tests that requests pass through the logging transport.
func TestLogTransport(t *testing.T) {
	t.Parallel()

	server, received := newUserAgentServer(t)
	transport := NewLogTransport(
		NewUserAgentInjector(http.DefaultTransport, utils.NewConfiguredUserAgentProvider("LogTest/1.0")), 0)

	req, err := http.NewRequest(http.MethodGet, server.URL, nil) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, "LogTest/1.0", <-received)

	_, err = transport.RoundTrip(nil) //nolint:bodyclose // Body is empty on error.
	require.ErrorIs(t, err, ErrNilRequest)
}

// TestLogTransport_Truncate tests the dump length limit.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	transport := &LogTransport{maxLogLength: 4}

	assert.Equal(t, "abc", transport.truncate([]byte("abc")))
	assert.Equal(t, "abcd... [truncated]", transport.truncate([]byte("abcdef")))
}
