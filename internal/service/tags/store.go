package tags

//go:generate $MOCKGEN -source=store.go -destination=mocks/store_mock.go

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/yt-audio-grabber/internal/logger"
)

// Store dispatches tag reads and writes to the codec registered for each file extension.
type Store interface {
	// ReadTags returns the record stored in the file.
	// Unsupported, unreadable or untagged files yield an empty record; it never fails.
	ReadTags(ctx context.Context, path string) TagRecord
	// WriteTags stores the record in the file. Failures are returned as *WriteError.
	WriteTags(ctx context.Context, path string, record TagRecord) error
	// EmbedCover replaces the front cover of the file.
	EmbedCover(ctx context.Context, path string, cover *Cover) error
	// Scan lists the supported audio files directly inside dir, sorted by name.
	Scan(ctx context.Context, dir string) ([]string, error)
	// Open loads a directory or a single file into a new working set.
	Open(ctx context.Context, path string) (*WorkingSet, error)
	// SupportedExtensions returns the extensions with a registered codec.
	SupportedExtensions() []string
}

// StoreImpl is the default Store implementation.
type StoreImpl struct {
	// codecs maps a lower-case extension to its codec.
	codecs map[string]Codec
	// workers bounds the number of files read concurrently by Open.
	workers int
}

// NewStore creates a Store with the default codecs.
func NewStore(workers int) Store {
	return NewStoreWithCodecs(workers, DefaultCodecs())
}

// NewStoreWithCodecs creates a Store with a custom codec registry.
func NewStoreWithCodecs(workers int, codecs map[string]Codec) *StoreImpl {
	return &StoreImpl{
		codecs:  codecs,
		workers: max(workers, 1),
	}
}

// ReadTags returns the record stored in the file, or an empty record on any failure.
// A codec that panics on a malformed file counts as a failure too.
func (s *StoreImpl) ReadTags(ctx context.Context, path string) (record TagRecord) {
	codec, ok := s.codecs[extensionOf(path)]
	if !ok {
		logger.Debugf(ctx, "No tag codec for %s", path)

		return TagRecord{}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "Tag reader panic recovered for %s: %v", path, r)

			record = TagRecord{}
		}
	}()

	record, err := codec.Decode(path)
	if err != nil {
		logger.Debugf(ctx, "Failed to read tags from %s: %v", path, err)

		return TagRecord{}
	}

	return record
}

// WriteTags stores the record in the file.
func (s *StoreImpl) WriteTags(_ context.Context, path string, record TagRecord) error {
	codec, ok := s.codecs[extensionOf(path)]
	if !ok {
		return &WriteError{Path: path, Err: fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, filepath.Ext(path))}
	}

	if err := codec.Encode(path, record); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}

// EmbedCover replaces the front cover of the file.
func (s *StoreImpl) EmbedCover(_ context.Context, path string, cover *Cover) error {
	codec, ok := s.codecs[extensionOf(path)]
	if !ok {
		return &WriteError{Path: path, Err: fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, filepath.Ext(path))}
	}

	embedder, ok := codec.(CoverEmbedder)
	if !ok {
		return &WriteError{Path: path, Err: ErrCoverUnsupported}
	}

	if err := embedder.EmbedCover(path, cover); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}

// Scan lists the supported audio files directly inside dir, sorted by name.
func (s *StoreImpl) Scan(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if _, ok := s.codecs[extensionOf(entry.Name())]; ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	slices.Sort(files)

	return files, nil
}

// Open loads a directory or a single file into a new working set.
// Tags are read concurrently; the working set keeps the sorted file order.
func (s *StoreImpl) Open(ctx context.Context, path string) (*WorkingSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}

	if info.IsDir() {
		files, err = s.Scan(ctx, path)
		if err != nil {
			return nil, err
		}
	} else if _, ok := s.codecs[extensionOf(path)]; !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, filepath.Ext(path))
	}

	records := make([]TagRecord, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, file := range files {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}

			records[i] = s.ReadTags(gCtx, file)

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	loaded := make(map[string]TagRecord, len(files))
	for i, file := range files {
		loaded[file] = records[i]
	}

	return NewWorkingSet(s, files, loaded), nil
}

// SupportedExtensions returns the extensions with a registered codec.
func (s *StoreImpl) SupportedExtensions() []string {
	return supportedExtensions(s.codecs)
}
