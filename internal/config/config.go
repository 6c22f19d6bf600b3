package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// OutputPath is the directory path where downloaded files will be saved.
	OutputPath string `mapstructure:"output_path"`
	// AudioFormat is the output format key (opus, mp3, aac, flac).
	// Display names written by older releases are accepted too.
	AudioFormat string `mapstructure:"audio_format"`
	// FFmpegPath is a directory containing the ffmpeg binary. Empty means "search PATH".
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// YtDlpPath is the yt-dlp executable. Empty means "search PATH".
	YtDlpPath string `mapstructure:"ytdlp_path"`
	// AutoInstallYtDlp downloads a private yt-dlp copy when none can be found.
	AutoInstallYtDlp bool `mapstructure:"auto_install_ytdlp"`
	// OutputTemplate is the yt-dlp file name template, relative to OutputPath.
	OutputTemplate string `mapstructure:"output_template"`
	// EmbedThumbnail indicates whether thumbnails are converted and embedded into the audio file.
	EmbedThumbnail bool `mapstructure:"embed_thumbnail"`
	// AudioQuality is the transcoding quality: a VBR level (0-10) or a bitrate such as "192K".
	AudioQuality string `mapstructure:"audio_quality"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// ProbeTimeout bounds a single metadata extraction call (e.g., "60s").
	ProbeTimeout string `mapstructure:"probe_timeout"`
	// ProbeCacheSize is the number of extraction results kept in memory.
	ProbeCacheSize int `mapstructure:"probe_cache_size"`
	// ScanWorkers is the number of files whose tags are read concurrently.
	ScanWorkers int `mapstructure:"scan_workers"`
	// UserAgent overrides the User-Agent header sent by the extractor and by cover downloads.
	UserAgent string `mapstructure:"user_agent"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// ConfigFilename is the file the configuration was read from (set automatically).
	ConfigFilename string `mapstructure:"-"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level `mapstructure:"-"`
	// ParsedProbeTimeout is the parsed extraction timeout.
	ParsedProbeTimeout time.Duration `mapstructure:"-"`
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes per second.
	ParsedDownloadSpeedLimit int64 `mapstructure:"-"`
	// Format is the resolved output format.
	Format constants.AudioFormatSpec `mapstructure:"-"`
}

const (
	// AppName is used for the XDG configuration directory.
	AppName = "yt-audio-grabber"

	// DefaultConfigFilename is the configuration file looked up in the working directory.
	DefaultConfigFilename = ".yt-audio-grabber.yaml"

	// DefaultOutputTemplate names files after the media title.
	DefaultOutputTemplate = "%(title)s.%(ext)s"

	// DefaultAudioQuality is the bitrate used when transcoding.
	DefaultAudioQuality = "192"

	// DefaultProbeTimeout bounds a single extraction call.
	DefaultProbeTimeout = "60s"

	// DefaultProbeCacheSize is the number of cached extraction results.
	DefaultProbeCacheSize = 64

	// DefaultScanWorkers is the number of concurrent tag readers.
	DefaultScanWorkers = 4

	// xdgConfigRelativePath is the configuration file path inside the XDG config directory.
	xdgConfigRelativePath = AppName + "/config.yaml"
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownAudioFormat indicates that the audio format is not supported.
	ErrUnknownAudioFormat = errors.New("unknown audio format")
	// ErrEmptyOutputPath indicates that no destination directory is configured.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	// ErrEmptyOutputTemplate indicates that the output template is missing.
	ErrEmptyOutputTemplate = errors.New("output template cannot be empty")
	// ErrInvalidAudioQuality indicates that the audio quality is not a level or bitrate.
	ErrInvalidAudioQuality = errors.New("invalid audio quality")
	// ErrInvalidProbeTimeout indicates that the probe timeout is not positive.
	ErrInvalidProbeTimeout = errors.New("probe_timeout must be positive")
	// ErrInvalidProbeCacheSize indicates that the probe cache size is not positive.
	ErrInvalidProbeCacheSize = errors.New("probe_cache_size must be a positive integer")
	// ErrInvalidScanWorkers indicates that the scan worker count is not positive.
	ErrInvalidScanWorkers = errors.New("scan_workers must be a positive integer")
)

//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
var audioQualityPattern = regexp.MustCompile(`^\d+[kK]?$`)

// LoadConfig loads configuration settings from a YAML file.
// With an empty filename the working directory and then the XDG config directory are searched;
// when neither holds a file the defaults are used.
func LoadConfig(configFilename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFilename == "" {
		configFilename = findDefaultConfigFile()
	}

	if configFilename != "" {
		v.SetConfigFile(configFilename)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigFilename = configFilename

	if _, ok := constants.ResolveAudioFormat(cfg.AudioFormat); !ok {
		logger.Warnf(context.Background(),
			"Unknown audio format '%s' in configuration, falling back to '%s'",
			cfg.AudioFormat, constants.DefaultFormatKey)

		cfg.AudioFormat = string(constants.DefaultFormatKey)
	}

	return &cfg, nil
}

// setDefaults registers the value of every key that may be omitted from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output_path", defaultOutputPath())
	v.SetDefault("audio_format", string(constants.DefaultFormatKey))
	v.SetDefault("ffmpeg_path", "")
	v.SetDefault("ytdlp_path", "")
	v.SetDefault("auto_install_ytdlp", false)
	v.SetDefault("output_template", DefaultOutputTemplate)
	v.SetDefault("embed_thumbnail", true)
	v.SetDefault("audio_quality", DefaultAudioQuality)
	v.SetDefault("download_speed_limit", "")
	v.SetDefault("probe_timeout", DefaultProbeTimeout)
	v.SetDefault("probe_cache_size", DefaultProbeCacheSize)
	v.SetDefault("scan_workers", DefaultScanWorkers)
	v.SetDefault("user_agent", "")
	v.SetDefault("log_level", "info")
}

// defaultOutputPath prefers the user's download directory.
func defaultOutputPath() string {
	if xdg.UserDirs.Download != "" {
		return xdg.UserDirs.Download
	}

	return "."
}

// findDefaultConfigFile returns the first existing default configuration file, or "".
func findDefaultConfigFile() string {
	if exists, _ := utils.IsFileExist(DefaultConfigFilename); exists {
		return DefaultConfigFilename
	}

	if path, err := xdg.SearchConfigFile(xdgConfigRelativePath); err == nil {
		return path
	}

	return ""
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	cfg.OutputPath = strings.TrimSpace(cfg.OutputPath)
	if cfg.OutputPath == "" {
		return ErrEmptyOutputPath
	}

	format, ok := constants.ResolveAudioFormat(cfg.AudioFormat)
	if !ok {
		return fmt.Errorf("%w: '%s', expected one of %s",
			ErrUnknownAudioFormat, cfg.AudioFormat, strings.Join(constants.AudioFormatKeys(), ", "))
	}

	cfg.Format = format
	cfg.AudioFormat = string(format.Key)

	if strings.TrimSpace(cfg.OutputTemplate) == "" {
		return ErrEmptyOutputTemplate
	}

	if !audioQualityPattern.MatchString(strings.TrimSpace(cfg.AudioQuality)) {
		return fmt.Errorf("%w: '%s'", ErrInvalidAudioQuality, cfg.AudioQuality)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !(isLogLevelCorrect) {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	cfg.ParsedProbeTimeout, err = time.ParseDuration(cfg.ProbeTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse probe timeout: %w", err)
	}

	if cfg.ParsedProbeTimeout <= 0 {
		return ErrInvalidProbeTimeout
	}

	if cfg.ProbeCacheSize <= 0 {
		return ErrInvalidProbeCacheSize
	}

	if cfg.ScanWorkers <= 0 {
		return ErrInvalidScanWorkers
	}

	return nil
}

// rememberedKeys are the user preferences persisted by SaveConfig, in file order.
//
//nolint:gochecknoglobals // Immutable list used as a constant.
var rememberedKeys = []string{"output_path", "audio_format", "ffmpeg_path"}

// rememberedValues returns the persisted preference values keyed by YAML key.
func rememberedValues(cfg *Config) map[string]string {
	return map[string]string{
		"output_path":  cfg.OutputPath,
		"audio_format": cfg.AudioFormat,
		"ffmpeg_path":  cfg.FFmpegPath,
	}
}

// SaveConfig saves the user preferences (output path, audio format, ffmpeg path)
// to the configuration file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile, err := getConfigFilePath(cfg)
	if err != nil {
		return err
	}

	// Read the original file content.
	originalContent, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return handleMissingConfigFile(configFile, cfg, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	updatePreferencesInNode(&node, rememberedValues(cfg))

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg.ConfigFilename = configFile

	return nil
}

// getConfigFilePath returns the file the config was read from,
// or a fresh path inside the XDG config directory.
func getConfigFilePath(cfg *Config) (string, error) {
	if cfg.ConfigFilename != "" {
		return cfg.ConfigFilename, nil
	}

	path, err := xdg.ConfigFile(xdgConfigRelativePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config file path: %w", err)
	}

	return path, nil
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile string, cfg *Config, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(configFile), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range rememberedValues(cfg) {
		v.Set(key, value)
	}

	if err = v.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	cfg.ConfigFilename = configFile

	return nil
}

// updatePreferencesInNode updates the remembered keys in the YAML node tree,
// appending the keys that are not present yet.
func updatePreferencesInNode(node *yaml.Node, values map[string]string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	var (
		mapNode = node.Content[0]
		seen    = make(map[string]struct{}, len(values))
	)

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		value, ok := values[keyNode.Value]
		if !ok {
			continue
		}

		// Update the value while preserving style.
		valueNode.Kind = yaml.ScalarNode
		valueNode.Tag = "!!str"
		valueNode.Value = value

		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		seen[keyNode.Value] = struct{}{}
	}

	for _, key := range rememberedKeys {
		if _, ok := seen[key]; ok {
			continue
		}

		mapNode.Content = append(mapNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: values[key], Style: yaml.DoubleQuotedStyle},
		)
	}
}
