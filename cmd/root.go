package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/yt-audio-grabber/internal/app"
	"github.com/oshokin/yt-audio-grabber/internal/config"
	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/version"
)

// dumpConfigEnv makes the root command print the effective configuration as JSON and exit.
const dumpConfigEnv = "YT_AUDIO_GRABBER_DUMP_CONFIG"

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "yt-audio-grabber [flags] {urls|file.txt}",
		Short: "Download the audio of videos and playlists.",
		Long: `YT Audio Grabber is a CLI tool for saving the audio track of online videos.
It supports:
- Single videos
- Playlists, with an interactive choice of entries
- Text files with one link per line

Audio is kept as opus without re-encoding, or converted to MP3, AAC or FLAC with ffmpeg.`,
		Version:          version.Full(),
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			flags := cmd.Flags()

			if err := bindFlagsToConfig(flags, appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			if os.Getenv(dumpConfigEnv) == "1" {
				dumpConfig(appConfig)

				return
			}

			items, _ := flags.GetString("items")
			selectAll, _ := flags.GetBool("yes")
			remember, _ := flags.GetBool("remember")

			app.ExecuteRootCommand(cmd.Context(), appConfig, args, &app.DownloadOptions{
				Items:     items,
				SelectAll: selectAll,
				Remember:  remember,
			})
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s', then the user config directory)",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"format",
		"f",
		"",
		fmt.Sprintf("audio format: %s (opus keeps the original stream, the others need ffmpeg).",
			strings.Join(constants.AudioFormatKeys(), ", ")))

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn't exist).")

	rootCmdFlags.String(
		"ffmpeg",
		"",
		"directory containing the ffmpeg binary (default: search PATH).")

	rootCmdFlags.String(
		"items",
		"",
		"playlist entries to download without asking, for example: 1,3,5-7.")

	rootCmdFlags.BoolP(
		"yes",
		"y",
		false,
		"download every playlist entry without asking.")

	rootCmdFlags.Bool(
		"remember",
		false,
		"save the output directory, format and ffmpeg directory to the configuration file.")

	rootCmdFlags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500KB, 1MB, 1.5MB.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if level, ok := logger.ParseLogLevel(appConfig.LogLevel); ok {
		logger.SetLevel(level)
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.AudioFormat, _ = flags.GetString("format")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("ffmpeg"); flag != nil && flag.Changed {
		cfg.FFmpegPath, _ = flags.GetString("ffmpeg")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	return config.ValidateConfig(cfg)
}

// dumpConfig prints the fields that flags can override.
func dumpConfig(cfg *config.Config) {
	data, _ := json.Marshal(map[string]any{
		"audio_format":         cfg.AudioFormat,
		"output_path":          cfg.OutputPath,
		"ffmpeg_path":          cfg.FFmpegPath,
		"download_speed_limit": cfg.DownloadSpeedLimit,
	})

	_, _ = fmt.Fprintln(os.Stdout, string(data))
}
