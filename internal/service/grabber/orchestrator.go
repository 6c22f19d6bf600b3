package grabber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/yt-audio-grabber/internal/client/ffmpeg"
	"github.com/oshokin/yt-audio-grabber/internal/client/ytdlp"
	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// Orchestrator downloads a list of items one at a time.
type Orchestrator struct {
	// client downloads single items.
	client ytdlp.Client
	// transcoders resolves ffmpeg.
	transcoders ffmpeg.Locator
	// runLog collects the lines of the current run.
	runLog *RunLog
	// goos selects the ffmpeg install hint.
	goos string
	// now returns the current time.
	now func() time.Time
}

// NewOrchestrator creates an Orchestrator writing into runLog.
func NewOrchestrator(client ytdlp.Client, transcoders ffmpeg.Locator, runLog *RunLog) *Orchestrator {
	return &Orchestrator{
		client:      client,
		transcoders: transcoders,
		runLog:      runLog,
		goos:        runtime.GOOS,
		now:         time.Now,
	}
}

// Preflight resolves ffmpeg for the run. It fails only when the format needs
// ffmpeg and none is found; otherwise a missing ffmpeg yields an empty location.
func (o *Orchestrator) Preflight(options *RunOptions) (string, error) {
	location, err := o.transcoders.Locate(options.TranscoderDir)
	if err == nil {
		return location, nil
	}

	if options.Format.RequiresExternalTranscoder {
		return "", &PreflightError{
			Format: options.Format.Key,
			Hint:   ffmpeg.InstallHint(o.goos),
			Err:    err,
		}
	}

	return "", nil
}

// Run downloads the locators in order. Item failures are collected in the
// summary and do not stop the run. The observer receives exactly one of
// OnRunCompleted or OnRunFailed.
func (o *Orchestrator) Run(
	ctx context.Context,
	locators []string,
	options *RunOptions,
	observer Observer,
) (summary *RunSummary, err error) {
	if observer == nil {
		observer = NopObserver{}
	}

	signal := newCompletionSignal(observer)

	if len(locators) == 0 {
		signal.fail(ErrEmptyItemList)

		return nil, ErrEmptyItemList
	}

	transcoderLocation, err := o.Preflight(options)
	if err != nil {
		signal.fail(err)

		return nil, err
	}

	if transcoderLocation == "" {
		logger.Debugf(ctx, "ffmpeg not found, metadata and thumbnail embedding disabled")
	}

	summary = &RunSummary{
		Total:     len(locators),
		StartTime: o.now(),
	}

	defer func() {
		summary.EndTime = o.now()

		if path, ok := o.runLog.Flush(ctx, options.OutputDir); ok {
			summary.LogPath = path
			observer.OnLogLine("Log saved: " + path)
		}

		if err != nil {
			signal.fail(err)

			return
		}

		signal.complete(summary)
	}()

	err = os.MkdirAll(options.OutputDir, constants.DefaultFolderPermissions)
	if err != nil {
		err = fmt.Errorf("failed to create output directory: %w", err)
		o.logLine(observer, "Error: "+err.Error())

		return summary, err
	}

	fetchOptions := &ytdlp.FetchOptions{
		OutputDir:          options.OutputDir,
		OutputTemplate:     options.OutputTemplate,
		Format:             options.Format,
		AudioQuality:       options.AudioQuality,
		TranscoderLocation: transcoderLocation,
		EmbedThumbnail:     options.EmbedThumbnail,
		SpeedLimit:         options.SpeedLimit,
		ContinueOnError:    true,
	}

	total := len(locators)
	isMulti := total > 1

	o.logLine(observer, fmt.Sprintf("Starting download of %d item(s)", total))

	for index, locator := range locators {
		if ctx.Err() != nil {
			break
		}

		if isMulti {
			o.logLine(observer, fmt.Sprintf("--- (%d/%d) ---", index+1, total))
		}

		o.runItem(ctx, index, locator, fetchOptions, observer, summary)

		if ctx.Err() != nil {
			break
		}

		if isMulti {
			observer.OnOverallProgress(index+1, total)
		}
	}

	if ctx.Err() != nil {
		summary.Cancelled = true
		o.logLine(observer, "Download cancelled")

		return summary, ErrRunCancelled
	}

	o.logLine(observer, "Download finished")

	return summary, nil
}

// runItem downloads one locator and records its outcome in summary.
func (o *Orchestrator) runItem(
	ctx context.Context,
	index int,
	locator string,
	options *ytdlp.FetchOptions,
	observer Observer,
	summary *RunSummary,
) {
	observer.OnItemProgress(index, ItemProgress{Known: true})

	var transferred int64

	err := o.client.Fetch(ctx, locator, options, func(event ytdlp.ProgressEvent) {
		switch event.Status {
		case ytdlp.ProgressDownloading:
			percent, known := event.Percent()
			observer.OnItemProgress(index, ItemProgress{
				Percent:         percent,
				Known:           known,
				DownloadedBytes: event.DownloadedBytes,
				TotalBytes:      event.TotalBytes,
			})

			if !known {
				o.logLine(observer, "  "+describeUnknownProgress(event))
			}
		case ytdlp.ProgressFinished:
			transferred = max(event.DownloadedBytes, event.TotalBytes)

			observer.OnItemProgress(index, ItemProgress{
				Percent:         100, //nolint:mnd // Percent scale.
				Known:           true,
				DownloadedBytes: transferred,
				TotalBytes:      transferred,
			})

			filename := filepath.Base(event.Filename)
			o.logLine(observer, "Converting: "+filename)
			observer.OnItemConverting(filename)
		case ytdlp.ProgressPostProcessing, ytdlp.ProgressError:
		}
	})

	if err == nil {
		summary.Succeeded++
		summary.BytesTransferred += transferred

		return
	}

	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return
	}

	summary.Failed++
	summary.Failures = append(summary.Failures, &ItemTransferError{
		Index:   index,
		Locator: locator,
		Err:     err,
	})

	o.logLine(observer, fmt.Sprintf("Error: %v", err))
	logger.Debugf(ctx, "Item %d (%s) failed: %v", index+1, locator, err)
}

// logLine appends text to the run log and forwards it to the observer.
func (o *Orchestrator) logLine(observer Observer, text string) {
	o.runLog.Append(text)
	observer.OnLogLine(text)
}

// describeUnknownProgress formats a progress line for a transfer of unknown size.
func describeUnknownProgress(event ytdlp.ProgressEvent) string {
	line := humanize.Bytes(utils.SafeInt64ToUint64(event.DownloadedBytes)) + " downloaded"
	if event.ETA > 0 {
		line += ", ETA " + event.ETA.Round(time.Second).String()
	}

	return line
}

// completionSignal delivers the end of a run to an observer at most once.
type completionSignal struct {
	once     sync.Once
	observer Observer
}

func newCompletionSignal(observer Observer) *completionSignal {
	return &completionSignal{observer: observer}
}

func (s *completionSignal) complete(summary *RunSummary) {
	s.once.Do(func() { s.observer.OnRunCompleted(summary) })
}

func (s *completionSignal) fail(err error) {
	s.once.Do(func() { s.observer.OnRunFailed(err) })
}
