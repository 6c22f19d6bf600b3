package cmd_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// testBinaryName is the name of the test binary for E2E tests.
	testBinaryName = "yt-audio-grabber-test"

	// baseConfig is the configuration file shared by the E2E tests.
	baseConfig = `
output_path: "/tmp/test-output"
audio_format: "opus"
ffmpeg_path: ""
download_speed_limit: "500KB"
log_level: "info"
`
)

// TestMain builds the binary before running E2E tests.
func TestMain(m *testing.M) {
	// Build the binary for testing.
	//nolint:noctx // TestMain doesn't have access to context, and build is needed before tests run.
	buildCmd := exec.Command("go", "build", "-o", testBinaryName, "../.")
	if err := buildCmd.Run(); err != nil {
		os.Exit(1)
	}

	code := m.Run()

	_ = os.Remove(testBinaryName)

	os.Exit(code)
}

// TestE2E_FlagOverrides tests that flags override the configuration file.
func TestE2E_FlagOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    []string
		expected ConfigDump
	}{
		{
			name:  "no flags uses config",
			flags: []string{},
			expected: ConfigDump{
				AudioFormat:        "opus",
				OutputPath:         "/tmp/test-output",
				DownloadSpeedLimit: "500KB",
			},
		},
		{
			name:  "format flag",
			flags: []string{"--format", "mp3"},
			expected: ConfigDump{
				AudioFormat:        "mp3",
				OutputPath:         "/tmp/test-output",
				DownloadSpeedLimit: "500KB",
			},
		},
		{
			name:  "all flags",
			flags: []string{"-f", "flac", "-o", "/tmp/flags", "--ffmpeg", "/opt/ffmpeg", "-s", "1MB"},
			expected: ConfigDump{
				AudioFormat:        "flac",
				OutputPath:         "/tmp/flags",
				FFmpegPath:         "/opt/ffmpeg",
				DownloadSpeedLimit: "1MB",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dump := runWithConfigDump(t, writeConfig(t), tt.flags)
			require.NotNil(t, dump)
			assert.Equal(t, tt.expected, *dump)
		})
	}
}

// TestE2E_FlagOverrides_InvalidValues tests that invalid flag values are rejected.
func TestE2E_FlagOverrides_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		flags            []string
		expectedErrorMsg string
	}{
		{
			name:             "unknown format",
			flags:            []string{"--format", "wav"},
			expectedErrorMsg: "unknown audio format",
		},
		{
			name:             "invalid speed limit",
			flags:            []string{"--speed-limit", "invalid-speed"},
			expectedErrorMsg: "failed to parse download speed limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := []string{"--config", writeConfig(t), "https://example.com/watch?v=1"}
			args = append(args, tt.flags...)

			//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
			cmd := exec.Command("./"+testBinaryName, args...)
			output, err := cmd.CombinedOutput()

			require.Error(t, err)
			assert.Contains(t, strings.ToLower(string(output)), tt.expectedErrorMsg)
		})
	}
}

// ConfigDump is the configuration printed by the dump hook.
type ConfigDump struct {
	AudioFormat        string `json:"audio_format"`
	OutputPath         string `json:"output_path"`
	FFmpegPath         string `json:"ffmpeg_path"`
	DownloadSpeedLimit string `json:"download_speed_limit"`
}

func writeConfig(t *testing.T) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(baseConfig), 0o600))

	return configPath
}

// runWithConfigDump runs the app with config dump enabled and parses the output.
func runWithConfigDump(t *testing.T, configPath string, flags []string) *ConfigDump {
	t.Helper()

	args := []string{"--config", configPath, "https://example.com/watch?v=1"}
	args = append(args, flags...)

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	cmd := exec.Command("./"+testBinaryName, args...)
	cmd.Env = append(os.Environ(), "YT_AUDIO_GRABBER_DUMP_CONFIG=1")

	output, err := cmd.Output()
	if err != nil {
		t.Logf("Command failed: %v, output: %s", err, string(output))

		return nil
	}

	var dump ConfigDump
	if err = json.Unmarshal(output, &dump); err != nil {
		t.Logf("Failed to parse config: %v, output: %s", err, string(output))

		return nil
	}

	return &dump
}
