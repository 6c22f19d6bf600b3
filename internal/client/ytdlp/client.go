package ytdlp

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	goytdlp "github.com/lrstanley/go-ytdlp"

	"github.com/oshokin/yt-audio-grabber/internal/config"
	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// Client defines the interface for interacting with yt-dlp.
type Client interface {
	// Probe extracts the metadata of a locator without downloading anything.
	Probe(ctx context.Context, locator string) (*ProbeResult, error)
	// Fetch downloads a single locator, reporting progress through onProgress.
	Fetch(ctx context.Context, locator string, options *FetchOptions, onProgress func(ProgressEvent)) error
}

// ClientImpl implements the Client interface on top of the yt-dlp executable.
type ClientImpl struct {
	// executable is the yt-dlp binary. Empty means "search PATH".
	executable string
	// probeTimeout bounds a single Probe call.
	probeTimeout time.Duration
	// userAgentProvider supplies the User-Agent header.
	userAgentProvider utils.UserAgentProvider
	// probeCache caches extraction results per locator.
	probeCache *lru.Cache[string, *ProbeResult]
}

const (
	// progressInterval is how often yt-dlp progress is reported.
	progressInterval = 250 * time.Millisecond
	// passthroughFormatSelector prefers an opus stream so no re-encoding is needed.
	passthroughFormatSelector = "bestaudio[acodec=opus]/bestaudio/best"
	// transcodeFormatSelector picks the best audio for the extract-audio post-processor.
	transcodeFormatSelector = "bestaudio/best"
	// thumbnailFormat is the image format thumbnails are converted to before embedding.
	thumbnailFormat = "png"
)

// NewClient creates and returns a new instance of ClientImpl.
func NewClient(cfg *config.Config, userAgentProvider utils.UserAgentProvider) (Client, error) {
	probeCache, err := lru.New[string, *ProbeResult](max(cfg.ProbeCacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to create probe cache: %w", err)
	}

	client := &ClientImpl{
		executable:        cfg.YtDlpPath,
		probeTimeout:      cfg.ParsedProbeTimeout,
		userAgentProvider: userAgentProvider,
		probeCache:        probeCache,
	}

	return client, nil
}

// Install downloads a private yt-dlp copy (or reuses a cached one) and returns its path.
func Install(ctx context.Context) (string, error) {
	resolved, err := goytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to install yt-dlp: %w", err)
	}

	logger.Debugf(ctx, "Using yt-dlp %s at %s", resolved.Version, resolved.Executable)

	return resolved.Executable, nil
}

// Probe extracts the metadata of a locator. Successful results are cached per locator.
func (c *ClientImpl) Probe(ctx context.Context, locator string) (*ProbeResult, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, ErrEmptyLocator
	}

	if cached, ok := c.probeCache.Get(locator); ok {
		logger.Debugf(ctx, "Using cached metadata for %s", locator)

		return cached, nil
	}

	if c.probeTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	command := c.newCommand().
		SkipDownload().
		DumpSingleJSON().
		FlatPlaylist().
		NoWarnings()

	result, err := command.Run(ctx, locator)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrProbeFailed, ctxErr)
		}

		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	probe, err := parseProbeOutput([]byte(result.Stdout))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	c.probeCache.Add(locator, probe)

	return probe, nil
}

// Fetch downloads and post-processes a single locator.
func (c *ClientImpl) Fetch(
	ctx context.Context,
	locator string,
	options *FetchOptions,
	onProgress func(ProgressEvent),
) error {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return ErrEmptyLocator
	}

	command := c.buildFetchCommand(options)
	if onProgress != nil {
		command.ProgressFunc(progressInterval, func(update goytdlp.ProgressUpdate) {
			if event, ok := convertProgress(&update); ok {
				onProgress(event)
			}
		})
	}

	_, err := command.Run(ctx, locator)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}

		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return nil
}

// newCommand creates a yt-dlp command carrying the settings shared by every call.
func (c *ClientImpl) newCommand() *goytdlp.Command {
	command := goytdlp.New()

	if c.executable != "" {
		command.SetExecutable(c.executable)
	}

	if c.userAgentProvider != nil {
		if userAgent := c.userAgentProvider.GetUserAgent(); userAgent != "" {
			command.AddHeaders("User-Agent:" + userAgent)
		}
	}

	return command
}

// buildFetchCommand translates FetchOptions into yt-dlp flags.
func (c *ClientImpl) buildFetchCommand(options *FetchOptions) *goytdlp.Command {
	command := c.newCommand().
		Output(filepath.Join(options.OutputDir, options.OutputTemplate)).
		NoPlaylist()

	if options.ContinueOnError {
		command.IgnoreErrors()
	}

	if options.Format.Key == constants.FormatOpus {
		command.Format(passthroughFormatSelector)
	} else {
		command.Format(transcodeFormatSelector).
			ExtractAudio().
			AudioFormat(options.Format.TargetCodec)

		if options.AudioQuality != "" {
			command.AudioQuality(options.AudioQuality)
		}
	}

	if options.TranscoderLocation != "" {
		command.FFmpegLocation(options.TranscoderLocation).EmbedMetadata()

		if options.EmbedThumbnail {
			command.WriteThumbnail().
				ConvertThumbnails(thumbnailFormat).
				EmbedThumbnail()
		}
	}

	if options.SpeedLimit > 0 {
		command.LimitRate(strconv.FormatInt(options.SpeedLimit, 10))
	}

	return command
}

// convertProgress maps a yt-dlp progress update to a ProgressEvent.
func convertProgress(update *goytdlp.ProgressUpdate) (ProgressEvent, bool) {
	event := ProgressEvent{
		Filename:        update.Filename,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETA:             update.ETA(),
	}

	if update.Info != nil && update.Info.Title != nil {
		event.Title = *update.Info.Title
	}

	switch update.Status {
	case goytdlp.ProgressStatusStarting, goytdlp.ProgressStatusDownloading:
		event.Status = ProgressDownloading
	case goytdlp.ProgressStatusFinished:
		event.Status = ProgressFinished
	case goytdlp.ProgressStatusPostProcessing:
		event.Status = ProgressPostProcessing
	case goytdlp.ProgressStatusError:
		event.Status = ProgressError
	default:
		return ProgressEvent{}, false
	}

	return event, true
}
