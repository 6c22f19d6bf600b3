package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import (
	"strings"

	"github.com/oshokin/yt-audio-grabber/internal/version"
)

// UserAgentProvider supplies the User-Agent header sent by the extractor.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string. An empty string keeps the extractor's own default.
	GetUserAgent() string
}

// ConfiguredUserAgentProvider returns the User-Agent from the configuration.
type ConfiguredUserAgentProvider struct {
	// userAgent is the User-Agent string to return.
	userAgent string
}

// NewConfiguredUserAgentProvider creates a provider for the configured User-Agent.
// The placeholder "{version}" is replaced with the application version.
func NewConfiguredUserAgentProvider(userAgent string) UserAgentProvider {
	userAgent = strings.ReplaceAll(strings.TrimSpace(userAgent), "{version}", version.Short())

	return &ConfiguredUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *ConfiguredUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
