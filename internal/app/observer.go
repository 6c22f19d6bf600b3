package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/service/grabber"
)

const (
	// barThrottle limits how often the progress bar is redrawn.
	barThrottle = 65 * time.Millisecond
	// barWidth is the width of the bar itself, without description and counters.
	barWidth = 30
	// barSpinner is the spinner shown for transfers of unknown size.
	barSpinner = 14
	// plainProgressStep is the percentage step logged when no terminal is attached.
	plainProgressStep = 25
)

// consoleObserver renders run events on the console.
// On a terminal the current item gets a progress bar; otherwise progress is logged in steps.
// It is driven by a grabber.SerialObserver, so events never arrive concurrently.
type consoleObserver struct {
	// ctx carries the logger fields.
	ctx context.Context //nolint:containedctx // Events have no context of their own.
	// out receives the progress bar.
	out io.Writer
	// interactive enables the progress bar.
	interactive bool
	// bar is the progress bar of the current item, nil between items.
	bar *progressbar.ProgressBar
	// barIndex is the item the bar belongs to.
	barIndex int
	// lastStep is the last logged progress step of the current item in plain mode.
	lastStep int
}

// newConsoleObserver creates a console observer writing bars to out.
func newConsoleObserver(ctx context.Context, out io.Writer, interactive bool) *consoleObserver {
	return &consoleObserver{
		ctx:         ctx,
		out:         out,
		interactive: interactive,
		barIndex:    -1,
		lastStep:    -1,
	}
}

// OnExtractionStarted implements grabber.Observer.
func (o *consoleObserver) OnExtractionStarted(locator string) {
	logger.Info(o.ctx, colorInfo.Sprint("Processing "+locator))
}

// OnCollectionDetected implements grabber.Observer.
func (o *consoleObserver) OnCollectionDetected(title string, count int) {
	logger.Debugf(o.ctx, "Collection '%s' has %d entries", title, count)
}

// OnItemProgress implements grabber.Observer.
func (o *consoleObserver) OnItemProgress(index int, progress grabber.ItemProgress) {
	if !o.interactive {
		o.logProgressStep(index, progress)

		return
	}

	if o.bar == nil || o.barIndex != index {
		o.finishBar()
		o.bar = o.newBar(index, progress)
		o.barIndex = index
	}

	if progress.Known && progress.TotalBytes > 0 && o.bar.GetMax64() != progress.TotalBytes {
		o.bar.ChangeMax64(progress.TotalBytes)
	}

	_ = o.bar.Set64(progress.DownloadedBytes)
}

// OnItemConverting implements grabber.Observer.
func (o *consoleObserver) OnItemConverting(string) {
	o.finishBar()
}

// OnOverallProgress implements grabber.Observer.
func (o *consoleObserver) OnOverallProgress(completed, total int) {
	o.clearBar()
	logger.Info(o.ctx, colorInfo.Sprintf("Overall: (%d/%d)", completed, total))
}

// OnRunCompleted implements grabber.Observer.
func (o *consoleObserver) OnRunCompleted(*grabber.RunSummary) {
	o.finishBar()
}

// OnRunFailed implements grabber.Observer.
func (o *consoleObserver) OnRunFailed(err error) {
	o.finishBar()

	if grabber.IsCancelled(err) {
		logger.Warn(o.ctx, colorWarning.Sprint("Download cancelled"))
	} else {
		logger.Error(o.ctx, colorError.Sprint(err.Error()))
	}
}

// OnLogLine implements grabber.Observer.
func (o *consoleObserver) OnLogLine(text string) {
	o.clearBar()
	logger.Info(o.ctx, text)
}

func (o *consoleObserver) newBar(index int, progress grabber.ItemProgress) *progressbar.ProgressBar {
	maxBytes := int64(-1)
	if progress.Known && progress.TotalBytes > 0 {
		maxBytes = progress.TotalBytes
	}

	return progressbar.NewOptions64(
		maxBytes,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionSetDescription(fmt.Sprintf("Item %d", index+1)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionThrottle(barThrottle),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(barSpinner),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(o.out)
		}),
	)
}

// finishBar completes the current bar, if any.
func (o *consoleObserver) finishBar() {
	if o.bar == nil {
		return
	}

	_ = o.bar.Finish()
	o.bar = nil
	o.barIndex = -1
}

// clearBar erases the current bar so a log line can be printed; it is redrawn on the next update.
func (o *consoleObserver) clearBar() {
	if o.bar != nil {
		_ = o.bar.Clear()
	}
}

// logProgressStep logs known progress every plainProgressStep percent.
func (o *consoleObserver) logProgressStep(index int, progress grabber.ItemProgress) {
	if index != o.barIndex {
		o.barIndex = index
		o.lastStep = -1
	}

	if !progress.Known {
		return
	}

	step := int(progress.Percent) / plainProgressStep
	if step <= o.lastStep {
		return
	}

	o.lastStep = step
	logger.Infof(o.ctx, "  Item %d: %d%%", index+1, step*plainProgressStep)
}
