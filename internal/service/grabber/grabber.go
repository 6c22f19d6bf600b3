package grabber

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/oshokin/yt-audio-grabber/internal/client/ffmpeg"
	"github.com/oshokin/yt-audio-grabber/internal/client/ytdlp"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
)

// Selector lets the user choose which entries of a collection are downloaded.
type Selector interface {
	// Select edits selection and returns false to cancel the run.
	Select(ctx context.Context, collection *CollectionDescriptor, selection *SelectionState) (bool, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, collection *CollectionDescriptor, selection *SelectionState) (bool, error)

// Select calls f.
func (f SelectorFunc) Select(ctx context.Context, collection *CollectionDescriptor, selection *SelectionState) (bool, error) {
	return f(ctx, collection, selection)
}

// Grabber drives runs through Idle, Extracting, SingleItemReady or
// AwaitingSelection, Downloading and finally Completed or Failed.
// A new run cannot start while another one is extracting or downloading.
type Grabber struct {
	// mu guards state and pending.
	mu sync.Mutex
	// state is the current phase.
	state RunState
	// pending is the resolved run waiting for Download, Confirm or Cancel.
	pending *pendingRun
	// router resolves locators.
	router *Router
	// orchestrator downloads items.
	orchestrator *Orchestrator
	// runLog is shared with the orchestrator.
	runLog *RunLog
	// observer receives run events.
	observer Observer
}

// pendingRun is a resolved run that has not been downloaded yet.
type pendingRun struct {
	runID     string
	options   *RunOptions
	locators  []string
	selection *SelectionState
}

// NewGrabber creates a Grabber. A nil observer discards events.
func NewGrabber(client ytdlp.Client, transcoders ffmpeg.Locator, observer Observer) *Grabber {
	if observer == nil {
		observer = NopObserver{}
	}

	runLog := NewRunLog()

	return &Grabber{
		state:        StateIdle,
		router:       NewRouter(client),
		orchestrator: NewOrchestrator(client, transcoders, runLog),
		runLog:       runLog,
		observer:     observer,
	}
}

// State returns the current phase.
func (g *Grabber) State() RunState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Selection returns the selection of a collection awaiting confirmation, or nil.
func (g *Grabber) Selection() *SelectionState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAwaitingSelection || g.pending == nil {
		return nil
	}

	return g.pending.selection
}

// RunLog returns the log of the current run.
func (g *Grabber) RunLog() *RunLog {
	return g.runLog
}

// Start checks ffmpeg, then extracts and classifies the locator.
// A single item moves the grabber to SingleItemReady, a collection to AwaitingSelection.
func (g *Grabber) Start(ctx context.Context, locator string, options *RunOptions) (*Resolution, error) {
	err := g.begin()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = logger.WithKV(ctx, "run_id", runID)

	g.runLog.Reset()
	g.observer.OnExtractionStarted(locator)

	if _, err = g.orchestrator.Preflight(options); err != nil {
		g.logLine("Error: " + err.Error())

		return nil, g.fail(err)
	}

	g.logLine("Fetching playlist info...")

	resolution, err := g.router.Resolve(ctx, locator)
	if err != nil {
		if ctx.Err() != nil {
			return nil, g.fail(ErrRunCancelled)
		}

		g.logLine("Extraction error: " + err.Error())

		return nil, g.fail(err)
	}

	pending := &pendingRun{
		runID:   runID,
		options: options,
	}

	if resolution.Collection != nil {
		collection := resolution.Collection
		pending.selection = NewSelectionState(collection.Items)

		g.logLine(fmt.Sprintf("Playlist detected: %s (%d items)", collection.Title, len(collection.Items)))
		g.observer.OnCollectionDetected(collection.Title, len(collection.Items))
		g.transition(StateAwaitingSelection, pending)
	} else {
		pending.locators = []string{resolution.Single.Locator}

		g.transition(StateSingleItemReady, pending)
	}

	logger.Debugf(ctx, "Resolved %s", locator)

	return resolution, nil
}

// Download downloads the single item resolved by Start.
func (g *Grabber) Download(ctx context.Context) (*RunSummary, error) {
	g.mu.Lock()

	if g.state != StateSingleItemReady || g.pending == nil {
		g.mu.Unlock()

		return nil, ErrNothingPending
	}

	pending := g.pending
	g.state = StateDownloading
	g.mu.Unlock()

	return g.download(ctx, pending, pending.locators)
}

// Confirm downloads the selected entries of the pending collection.
// An empty selection ends the run without downloading and returns a nil summary.
func (g *Grabber) Confirm(ctx context.Context) (*RunSummary, error) {
	g.mu.Lock()

	if g.state != StateAwaitingSelection || g.pending == nil {
		g.mu.Unlock()

		return nil, ErrNothingPending
	}

	pending := g.pending

	locators, err := pending.selection.Confirm()
	if err != nil {
		g.mu.Unlock()

		return nil, err
	}

	if len(locators) == 0 {
		g.state = StateIdle
		g.pending = nil
		g.mu.Unlock()

		return nil, nil
	}

	g.state = StateDownloading
	g.mu.Unlock()

	return g.download(ctx, pending, locators)
}

// Cancel discards a resolved run that has not started downloading.
func (g *Grabber) Cancel() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAwaitingSelection && g.state != StateSingleItemReady {
		return ErrNothingPending
	}

	g.discardPending()
	g.state = StateIdle

	return nil
}

// Run performs a whole run for locator. Collections are passed to selector;
// a nil selector downloads every entry.
func (g *Grabber) Run(ctx context.Context, locator string, options *RunOptions, selector Selector) (*RunSummary, error) {
	resolution, err := g.Start(ctx, locator, options)
	if err != nil {
		return nil, err
	}

	if resolution.Single != nil {
		return g.Download(ctx)
	}

	if selector != nil {
		confirmed, selectErr := selector.Select(ctx, resolution.Collection, g.Selection())
		if selectErr != nil || !confirmed {
			g.Cancel() //nolint:errcheck,gosec // The run was just resolved, there is always something to cancel.

			return nil, selectErr
		}
	}

	return g.Confirm(ctx)
}

// download runs the orchestrator and records the final state.
func (g *Grabber) download(ctx context.Context, pending *pendingRun, locators []string) (*RunSummary, error) {
	ctx = logger.WithKV(ctx, "run_id", pending.runID)

	summary, err := g.orchestrator.Run(ctx, locators, pending.options, g.observer)

	state := StateCompleted
	if err != nil {
		state = StateFailed
	}

	g.mu.Lock()
	g.state = state
	g.pending = nil
	g.mu.Unlock()

	return summary, err
}

// begin moves the grabber to Extracting unless a run is active.
func (g *Grabber) begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateExtracting || g.state == StateDownloading {
		return ErrRunInProgress
	}

	g.discardPending()
	g.state = StateExtracting

	return nil
}

// fail ends the run during extraction.
func (g *Grabber) fail(err error) error {
	g.mu.Lock()
	g.state = StateFailed
	g.mu.Unlock()

	g.observer.OnRunFailed(err)

	return err
}

// transition stores the resolved run and moves to state.
func (g *Grabber) transition(state RunState, pending *pendingRun) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = state
	g.pending = pending
}

// discardPending drops the resolved run. The caller must hold mu.
func (g *Grabber) discardPending() {
	if g.pending != nil && g.pending.selection != nil {
		g.pending.selection.Cancel()
	}

	g.pending = nil
}

// logLine appends text to the run log and forwards it to the observer.
func (g *Grabber) logLine(text string) {
	g.runLog.Append(text)
	g.observer.OnLogLine(text)
}

// IsCancelled reports whether err ended a run because it was cancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrRunCancelled) || errors.Is(err, context.Canceled)
}
