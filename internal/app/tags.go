package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/yt-audio-grabber/internal/client/artwork"
	"github.com/oshokin/yt-audio-grabber/internal/config"
	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/service/tags"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// TagEdits holds the fields given on the command line. Nil fields are left unchanged.
type TagEdits struct {
	Artist *string
	Album  *string
	Title  *string
	Track  *string
}

// IsEmpty reports whether no field was given.
func (e *TagEdits) IsEmpty() bool {
	return e.Artist == nil && e.Album == nil && e.Title == nil && e.Track == nil
}

// apply returns record with the given fields replaced.
func (e *TagEdits) apply(record tags.TagRecord) tags.TagRecord {
	if e.Artist != nil {
		record.Artist = strings.TrimSpace(*e.Artist)
	}

	if e.Album != nil {
		record.Album = strings.TrimSpace(*e.Album)
	}

	if e.Title != nil {
		record.Title = strings.TrimSpace(*e.Title)
	}

	if e.Track != nil {
		record.Track = strings.TrimSpace(*e.Track)
	}

	return record
}

// ErrNothingToSet indicates a tags set command without any field.
var ErrNothingToSet = errors.New("no tag fields given")

// ExecuteTagsShowCommand prints the tags of every supported file at path.
func ExecuteTagsShowCommand(ctx context.Context, cfg *config.Config, path string) {
	initializeColors()

	ws := openWorkingSet(ctx, tags.NewStore(cfg.ScanWorkers), path)
	if ws == nil {
		return
	}

	for i, file := range ws.Files() {
		record, _ := ws.Record(file)

		logger.Infof(ctx, "%d. %s", i+1, colorInfo.Sprint(filepath.Base(file)))
		logger.Infof(ctx, "   Artist: %s", record.Artist)
		logger.Infof(ctx, "   Album:  %s", record.Album)
		logger.Infof(ctx, "   Title:  %s", record.Title)
		logger.Infof(ctx, "   Track:  %s", record.Track)
	}
}

// ExecuteTagsSetCommand changes the given fields of every file at path and saves each file.
func ExecuteTagsSetCommand(ctx context.Context, cfg *config.Config, path string, edits *TagEdits) {
	initializeColors()

	if edits.IsEmpty() {
		logger.Fatalf(ctx, "%v, use --artist, --album, --title or --track", ErrNothingToSet)
	}

	ws := openWorkingSet(ctx, tags.NewStore(cfg.ScanWorkers), path)
	if ws == nil {
		return
	}

	for _, file := range ws.Files() {
		record, _ := ws.Record(file)

		if err := ws.Update(file, edits.apply(record)); err != nil {
			logger.Error(ctx, colorError.Sprintf("Save error: %v", err))

			continue
		}

		if err := ws.SaveOne(ctx, file); err != nil {
			logger.Error(ctx, colorError.Sprintf("Save error: %v", err))

			continue
		}

		logger.Info(ctx, colorSuccess.Sprint("Saved: "+filepath.Base(file)))
	}
}

// ExecuteTagsApplyCommand sets the common artist and album on every file at path and saves them.
func ExecuteTagsApplyCommand(ctx context.Context, cfg *config.Config, path string, common tags.CommonFields) {
	initializeColors()

	ws := openWorkingSet(ctx, tags.NewStore(cfg.ScanWorkers), path)
	if ws == nil {
		return
	}

	ws.ApplyCommon(common)
	logger.Info(ctx, "Applied artist/album to all files.")

	reportBulkSave(ctx, ws.SaveAll(ctx))
}

// ExecuteTagsAutoFillCommand derives artist, title and track from the file names at path and saves them.
// Hand-edited records are only overwritten when force is set.
func ExecuteTagsAutoFillCommand(
	ctx context.Context,
	cfg *config.Config,
	path string,
	common tags.CommonFields,
	order []string,
	force bool,
) {
	initializeColors()

	ws := openWorkingSet(ctx, tags.NewStore(cfg.ScanWorkers), path)
	if ws == nil {
		return
	}

	if len(order) > 0 {
		if err := ws.SetOrder(resolveOrder(path, order)); err != nil {
			logger.Fatalf(ctx, "Invalid order: %v", err)
		}
	}

	confirm := func(overwritten []string) bool {
		if !force {
			logger.Warn(ctx, colorWarning.Sprintf(
				"Auto-fill would overwrite %d edited file(s), use --force to continue", len(overwritten)))
		}

		return force
	}

	if !ws.ApplyAutoFill(common, confirm) {
		return
	}

	reportBulkSave(ctx, ws.SaveAll(ctx))
}

// ExecuteTagsCoverCommand embeds an image, given as a local path or an http(s) URL,
// as the front cover of every file at path.
func ExecuteTagsCoverCommand(ctx context.Context, cfg *config.Config, path, imageSource string) {
	initializeColors()

	fetcher := artwork.NewFetcher(utils.NewConfiguredUserAgentProvider(cfg.UserAgent))

	cover, err := loadCover(ctx, fetcher, imageSource)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load cover image: %v", err)
	}

	store := tags.NewStore(cfg.ScanWorkers)

	ws := openWorkingSet(ctx, store, path)
	if ws == nil {
		return
	}

	reportBulkSave(ctx, embedCover(ctx, store, ws.Files(), cover))
}

// loadCover fetches imageSource and converts it into a tags.Cover.
func loadCover(ctx context.Context, fetcher artwork.Fetcher, imageSource string) (*tags.Cover, error) {
	image, err := fetcher.Fetch(ctx, imageSource)
	if err != nil {
		return nil, err
	}

	return &tags.Cover{Data: image.Data, MIMEType: image.MIMEType}, nil
}

// embedCover writes cover into every file, collecting failures instead of stopping.
func embedCover(ctx context.Context, store tags.Store, files []string, cover *tags.Cover) *tags.BulkSaveResult {
	result := new(tags.BulkSaveResult)

	for _, file := range files {
		if err := store.EmbedCover(ctx, file, cover); err != nil {
			result.Failed++

			var writeErr *tags.WriteError
			if !errors.As(err, &writeErr) {
				writeErr = &tags.WriteError{Path: file, Err: err}
			}

			result.Failures = append(result.Failures, writeErr)

			continue
		}

		result.Succeeded++
	}

	return result
}

// openWorkingSet loads path, logging instead of returning when nothing can be edited.
func openWorkingSet(ctx context.Context, store tags.Store, path string) *tags.WorkingSet {
	ws, err := store.Open(ctx, path)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open %s: %v", path, err)
	}

	if ws.Len() == 0 {
		logger.Info(ctx, "No audio files found.")

		return nil
	}

	return ws
}

// resolveOrder makes file names relative to a directory absolute.
func resolveOrder(path string, order []string) []string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return order
	}

	resolved := make([]string, len(order))
	for i, name := range order {
		if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
			resolved[i] = name

			continue
		}

		resolved[i] = filepath.Join(path, name)
	}

	return resolved
}

// reportBulkSave prints the outcome of a bulk save.
func reportBulkSave(ctx context.Context, result *tags.BulkSaveResult) {
	for _, failure := range result.Failures {
		logger.Error(ctx, colorError.Sprintf("Save error: %v", failure))
	}

	status := "Save complete: " + result.Status()

	if result.AllSucceeded() {
		logger.Info(ctx, colorSuccess.Sprint(status))
	} else {
		logger.Warn(ctx, colorWarning.Sprint(status))
	}
}
