package grabber

//go:generate $MOCKGEN -source=events.go -destination=mocks/events_mock.go

import "sync"

// ItemProgress is the progress of the item being downloaded.
type ItemProgress struct {
	// Percent is the completion percentage, valid when Known is true.
	Percent float64
	// Known is false for transfers of unknown size.
	Known bool
	// DownloadedBytes is the number of bytes transferred so far.
	DownloadedBytes int64
	// TotalBytes is the expected size, or 0 when unknown.
	TotalBytes int64
}

// Observer receives the events of a run.
type Observer interface {
	// OnExtractionStarted is called before the locator metadata is extracted.
	OnExtractionStarted(locator string)
	// OnCollectionDetected is called when the locator resolved to a collection.
	OnCollectionDetected(title string, count int)
	// OnItemProgress is called while the item at index is downloaded.
	OnItemProgress(index int, progress ItemProgress)
	// OnItemConverting is called when the download of filename finished and post-processing starts.
	OnItemConverting(filename string)
	// OnOverallProgress is called after each item of a multi-item run.
	OnOverallProgress(completed, total int)
	// OnRunCompleted is called once when a run finishes.
	OnRunCompleted(summary *RunSummary)
	// OnRunFailed is called once when a run ends with a terminal error.
	OnRunFailed(err error)
	// OnLogLine is called for every line written to the run log.
	OnLogLine(text string)
}

// NopObserver ignores every event. Embed it to implement only some events.
type NopObserver struct{}

// OnExtractionStarted does nothing.
func (NopObserver) OnExtractionStarted(string) {}

// OnCollectionDetected does nothing.
func (NopObserver) OnCollectionDetected(string, int) {}

// OnItemProgress does nothing.
func (NopObserver) OnItemProgress(int, ItemProgress) {}

// OnItemConverting does nothing.
func (NopObserver) OnItemConverting(string) {}

// OnOverallProgress does nothing.
func (NopObserver) OnOverallProgress(int, int) {}

// OnRunCompleted does nothing.
func (NopObserver) OnRunCompleted(*RunSummary) {}

// OnRunFailed does nothing.
func (NopObserver) OnRunFailed(error) {}

// OnLogLine does nothing.
func (NopObserver) OnLogLine(string) {}

// SerialObserver forwards events to a target observer from a single goroutine,
// in the order they were emitted. Events emitted after Close are dropped.
type SerialObserver struct {
	target Observer
	events chan func()
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// defaultSerialBuffer is the number of events queued before emitters block.
const defaultSerialBuffer = 256

// NewSerialObserver starts the delivery goroutine for target.
func NewSerialObserver(target Observer) *SerialObserver {
	s := &SerialObserver{
		target: target,
		events: make(chan func(), defaultSerialBuffer),
		done:   make(chan struct{}),
	}

	go s.loop()

	return s
}

// Close delivers the queued events and stops the delivery goroutine.
func (s *SerialObserver) Close() {
	s.mu.Lock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}

	s.mu.Unlock()

	<-s.done
}

// Flush blocks until every event queued before the call has been delivered.
func (s *SerialObserver) Flush() {
	delivered := make(chan struct{})

	s.mu.RLock()

	if s.closed {
		s.mu.RUnlock()

		return
	}

	s.events <- func() { close(delivered) }
	s.mu.RUnlock()

	<-delivered
}

// OnExtractionStarted forwards the event.
func (s *SerialObserver) OnExtractionStarted(locator string) {
	s.dispatch(func() { s.target.OnExtractionStarted(locator) })
}

// OnCollectionDetected forwards the event.
func (s *SerialObserver) OnCollectionDetected(title string, count int) {
	s.dispatch(func() { s.target.OnCollectionDetected(title, count) })
}

// OnItemProgress forwards the event.
func (s *SerialObserver) OnItemProgress(index int, progress ItemProgress) {
	s.dispatch(func() { s.target.OnItemProgress(index, progress) })
}

// OnItemConverting forwards the event.
func (s *SerialObserver) OnItemConverting(filename string) {
	s.dispatch(func() { s.target.OnItemConverting(filename) })
}

// OnOverallProgress forwards the event.
func (s *SerialObserver) OnOverallProgress(completed, total int) {
	s.dispatch(func() { s.target.OnOverallProgress(completed, total) })
}

// OnRunCompleted forwards the event.
func (s *SerialObserver) OnRunCompleted(summary *RunSummary) {
	s.dispatch(func() { s.target.OnRunCompleted(summary) })
}

// OnRunFailed forwards the event.
func (s *SerialObserver) OnRunFailed(err error) {
	s.dispatch(func() { s.target.OnRunFailed(err) })
}

// OnLogLine forwards the event.
func (s *SerialObserver) OnLogLine(text string) {
	s.dispatch(func() { s.target.OnLogLine(text) })
}

func (s *SerialObserver) dispatch(event func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	s.events <- event
}

func (s *SerialObserver) loop() {
	defer close(s.done)

	for event := range s.events {
		event()
	}
}
