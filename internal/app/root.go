package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oshokin/yt-audio-grabber/internal/client/ffmpeg"
	"github.com/oshokin/yt-audio-grabber/internal/client/ytdlp"
	"github.com/oshokin/yt-audio-grabber/internal/config"
	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/service/grabber"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// DownloadOptions holds the download flags that are not part of the configuration.
type DownloadOptions struct {
	// Items is a 1-based index list applied to every collection, empty to ask.
	Items string
	// SelectAll downloads every collection entry without asking.
	SelectAll bool
	// Remember saves the output path, format and ffmpeg path to the configuration file.
	Remember bool
}

// ExecuteRootCommand is the entry point for the application.
// It initializes the yt-dlp client and the grabber, then runs every locator in turn.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, args []string, options *DownloadOptions) {
	initializeColors()

	locators, err := expandLocators(args)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read locators: %v", err)
	}

	if cfg.YtDlpPath == "" && cfg.AutoInstallYtDlp {
		cfg.YtDlpPath, err = ytdlp.Install(ctx)
		if err != nil {
			logger.Fatalf(ctx, "Failed to install yt-dlp: %v", err)
		}
	}

	client, err := ytdlp.NewClient(cfg, utils.NewConfiguredUserAgentProvider(cfg.UserAgent))
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize yt-dlp client: %v", err)
	}

	transcoders := ffmpeg.NewLocator()
	if _, err = transcoders.Locate(cfg.FFmpegPath); err != nil {
		logger.Warn(ctx, colorWarning.Sprintf("%v. Install it with: %s", err, ffmpeg.InstallHint(runtime.GOOS)))
	}

	var (
		observer = grabber.NewSerialObserver(newConsoleObserver(ctx, os.Stdout, isTerminal()))
		g        = grabber.NewGrabber(client, transcoders, observer)
		selector = newPromptSelector(options.Items, options.SelectAll, isTerminal())
		runs     = grabber.NewRunOptions(cfg)
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		observer.Close()
	}()

	for _, locator := range locators {
		if ctx.Err() != nil {
			break
		}

		if !runLocator(ctx, g, observer, locator, runs, selector) {
			break
		}
	}

	if options.Remember {
		rememberPreferences(ctx, cfg)
	}
}

// runLocator performs one run and prints its summary.
// It returns false when no further locator should be processed.
func runLocator(
	ctx context.Context,
	g *grabber.Grabber,
	observer *grabber.SerialObserver,
	locator string,
	options *grabber.RunOptions,
	selector grabber.Selector,
) bool {
	summary, err := g.Run(ctx, locator, options, selector)

	observer.Flush()

	if summary != nil {
		grabber.PrintRunSummary(ctx, summary)
	} else if err == nil {
		logger.Info(ctx, "Nothing selected, skipping "+locator)
	}

	if err == nil {
		return true
	}

	logger.Debugf(ctx, "Run for %s ended with: %v", locator, err)

	var preflightErr *grabber.PreflightError

	// Without ffmpeg every following run would fail the same way.
	return !grabber.IsCancelled(err) && !errors.As(err, &preflightErr)
}

// expandLocators replaces every .txt argument with its unique non-empty lines.
func expandLocators(args []string) ([]string, error) {
	var (
		seen     = make(map[string]struct{}, len(args))
		locators = make([]string, 0, len(args))
	)

	add := func(locator string) {
		if _, ok := seen[locator]; ok {
			return
		}

		seen[locator] = struct{}{}
		locators = append(locators, locator)
	}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		if !strings.EqualFold(filepath.Ext(arg), constants.ExtensionTXT) {
			add(arg)

			continue
		}

		lines, err := utils.ReadUniqueLinesFromFile(arg)
		if err != nil {
			return nil, err
		}

		for _, line := range lines {
			add(line)
		}
	}

	return locators, nil
}

// rememberPreferences saves the output path, format and ffmpeg path.
func rememberPreferences(ctx context.Context, cfg *config.Config) {
	if err := config.SaveConfig(cfg); err != nil {
		logger.Errorf(ctx, "Failed to save preferences: %v", err)

		return
	}

	logger.Infof(ctx, "Preferences saved to %s", cfg.ConfigFilename)
}
