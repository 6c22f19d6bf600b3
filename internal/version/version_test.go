package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestShort tests that Short is the bare version.
func TestShort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Version, Short())
	assert.NotContains(t, Short(), " ")
}

// TestFull tests that Full lists the version, commit and build time.
func TestFull(t *testing.T) {
	t.Parallel()

	full := Full()

	for _, part := range []string{"version: " + Version, "commit: " + Commit, "built at: " + BuildTime} {
		assert.Contains(t, full, part)
	}

	assert.True(t, strings.HasPrefix(full, "version: "))
}

// TestDefaults tests the values used when no -ldflags are given.
func TestDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, strings.Count(Version, "."), "version must look like X.Y.Z")
	assert.NotEmpty(t, Commit)
	assert.NotEmpty(t, BuildTime)
}
