package grabber

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

const (
	// summaryRule separates the sections of the run summary.
	summaryRule = "═══════════════════════════════════════════════════════════════"
	// retryCommandName starts the suggested retry command.
	retryCommandName = "yt-audio-grabber"
	// minReportedDuration hides durations too short to be meaningful.
	minReportedDuration = 100 * time.Millisecond
)

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60 //nolint:mnd // Minutes per hour.
	seconds := int(d.Seconds()) % 60 //nolint:mnd // Seconds per minute.

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// PrintRunSummary prints a formatted summary of a run.
func PrintRunSummary(ctx context.Context, summary *RunSummary) {
	if summary == nil || summary.Total == 0 {
		return
	}

	printSummaryHeader(ctx, summary.Cancelled)
	printItemStatistics(ctx, summary)
	printDataTransferStatistics(ctx, summary)
	logger.Info(ctx, summaryRule)
	printErrorDetails(ctx, summary)
	printFinalMessage(ctx, summary)
}

// printSummaryHeader prints the summary header.
func printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, summaryRule)

	if wasInterrupted {
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, summaryRule)
}

// printItemStatistics prints item counters.
func printItemStatistics(ctx context.Context, summary *RunSummary) {
	logger.Infof(ctx, "Items:            %d total", summary.Total)

	if summary.Succeeded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", summary.Succeeded)
	}

	if summary.Failed > 0 {
		logger.Infof(ctx, "  Failed:          %d", summary.Failed)
	}

	if notAttempted := summary.Total - summary.Attempted(); notAttempted > 0 {
		logger.Infof(ctx, "  Not Attempted:   %d", notAttempted)
	}

	if attempted := summary.Attempted(); attempted > 0 {
		successRate := float64(summary.Succeeded) / float64(attempted) * 100 //nolint:mnd // Percent scale.
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

// printDataTransferStatistics prints data transfer statistics.
func printDataTransferStatistics(ctx context.Context, summary *RunSummary) {
	if summary.BytesTransferred > 0 {
		logger.Info(ctx, "")
		logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(utils.SafeInt64ToUint64(summary.BytesTransferred)))
	}

	if summary.StartTime.IsZero() || summary.EndTime.IsZero() {
		return
	}

	duration := summary.EndTime.Sub(summary.StartTime)
	if duration <= minReportedDuration {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

	if summary.BytesTransferred > 0 {
		bytesPerSecond := float64(summary.BytesTransferred) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

// printErrorDetails prints every failed item and a retry command.
func printErrorDetails(ctx context.Context, summary *RunSummary) {
	if len(summary.Failures) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(summary.Failures))

	for i, failure := range summary.Failures {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] Item %d of %d", i+1, failure.Index+1, summary.Total)
		logger.Errorf(ctx, "      URL: %s", failure.Locator)
		logger.Errorf(ctx, "      Error: %v", failure.Err)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summaryRule)

	printRetryCommand(ctx, summary.Failures)
}

// printRetryCommand prints a command that downloads only the failed items.
func printRetryCommand(ctx context.Context, failures []*ItemTransferError) {
	var (
		seen     = make(map[string]bool, len(failures))
		locators = make([]string, 0, len(failures))
	)

	for _, failure := range failures {
		if failure.Locator == "" || seen[failure.Locator] {
			continue
		}

		seen[failure.Locator] = true
		locators = append(locators, failure.Locator)
	}

	if len(locators) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "To retry only failed downloads, run:")
	logger.Info(ctx, "")
	logger.Infof(ctx, "  %s %s", retryCommandName, strings.Join(locators, " "))
}

// printFinalMessage prints a helpful message based on the run results.
func printFinalMessage(ctx context.Context, summary *RunSummary) {
	switch {
	case summary.Cancelled:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if summary.Succeeded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d item(s) before interruption.", summary.Succeeded)
		}
	case summary.Failed > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during download. See detailed error log above.", summary.Failed)
	case summary.Succeeded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	}

	if summary.LogPath != "" {
		logger.Infof(ctx, "Run log: %s", summary.LogPath)
	}
}
