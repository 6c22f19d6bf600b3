package tags

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// WorkingSet is the in-memory copy of the tags of a group of files, keyed by path.
// Between load and save it is the only source of truth; it is owned by a single
// editing context and is not safe for concurrent use.
type WorkingSet struct {
	// store persists records.
	store Store
	// files is the current sort order.
	files []string
	// records holds the current value of each file.
	records map[string]TagRecord
	// edited marks files changed by hand since load or the last auto-fill.
	edited map[string]bool
}

// BulkSaveResult is the outcome of saving every file of a working set.
type BulkSaveResult struct {
	// Succeeded is the number of files written.
	Succeeded int
	// Failed is the number of files that could not be written.
	Failed int
	// Failures describes each failed file in order.
	Failures []*WriteError
}

// AllSucceeded reports whether every file was written.
func (r *BulkSaveResult) AllSucceeded() bool {
	return r.Failed == 0
}

// Status renders the result as "N succeeded, M failed".
func (r *BulkSaveResult) Status() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Succeeded, r.Failed)
}

// NewWorkingSet creates a working set over files. Missing records default to empty.
func NewWorkingSet(store Store, files []string, records map[string]TagRecord) *WorkingSet {
	ws := &WorkingSet{
		store:   store,
		files:   slices.Clone(files),
		records: make(map[string]TagRecord, len(files)),
		edited:  make(map[string]bool, len(files)),
	}

	for _, file := range files {
		ws.records[file] = records[file]
	}

	return ws
}

// Files returns the files in their current order.
func (ws *WorkingSet) Files() []string {
	return slices.Clone(ws.files)
}

// Len returns the number of files.
func (ws *WorkingSet) Len() int {
	return len(ws.files)
}

// Record returns the current record of a file.
func (ws *WorkingSet) Record(path string) (TagRecord, bool) {
	record, ok := ws.records[path]

	return record, ok
}

// Edited reports whether the file was changed by hand since load or the last auto-fill.
func (ws *WorkingSet) Edited(path string) bool {
	return ws.edited[path]
}

// Update replaces the record of a file.
func (ws *WorkingSet) Update(path string, record TagRecord) error {
	current, ok := ws.records[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, path)
	}

	if current != record {
		ws.records[path] = record
		ws.edited[path] = true
	}

	return nil
}

// SetOrder changes the sort order used by auto-fill. It must be a permutation of Files.
func (ws *WorkingSet) SetOrder(files []string) error {
	if len(files) != len(ws.files) {
		return ErrOrderMismatch
	}

	seen := make(map[string]struct{}, len(files))

	for _, file := range files {
		if _, ok := ws.records[file]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFile, file)
		}

		if _, dup := seen[file]; dup {
			return ErrOrderMismatch
		}

		seen[file] = struct{}{}
	}

	ws.files = slices.Clone(files)

	return nil
}

// ApplyCommon sets the common artist and album on every file.
// Both fields are assigned as given, so a blank value clears the field.
func (ws *WorkingSet) ApplyCommon(common CommonFields) {
	for _, file := range ws.files {
		record := ws.records[file]
		record.Artist = common.Artist
		record.Album = common.Album

		_ = ws.Update(file, record)
	}
}

// ApplyAutoFill replaces every record with the one derived by AutoFill.
// When this would overwrite hand-edited records, confirm is called with those files
// and nothing changes unless it returns true. A nil confirm counts as a refusal.
// It reports whether the records were replaced.
func (ws *WorkingSet) ApplyAutoFill(common CommonFields, confirm func(overwritten []string) bool) bool {
	derived := AutoFill(ws.files, common)

	var overwritten []string

	for _, file := range ws.files {
		if ws.edited[file] && ws.records[file] != derived[file] {
			overwritten = append(overwritten, file)
		}
	}

	if len(overwritten) > 0 && (confirm == nil || !confirm(overwritten)) {
		return false
	}

	for _, file := range ws.files {
		ws.records[file] = derived[file]
		ws.edited[file] = false
	}

	return true
}

// SaveOne writes the current record of a single file.
func (ws *WorkingSet) SaveOne(ctx context.Context, path string) error {
	record, ok := ws.records[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFile, path)
	}

	return ws.store.WriteTags(ctx, path, record)
}

// SaveAll writes every record in file order. A failing file never stops the loop.
func (ws *WorkingSet) SaveAll(ctx context.Context) *BulkSaveResult {
	result := new(BulkSaveResult)

	for _, file := range ws.files {
		err := ws.store.WriteTags(ctx, file, ws.records[file])
		if err == nil {
			result.Succeeded++

			continue
		}

		result.Failed++

		var writeErr *WriteError
		if !errors.As(err, &writeErr) {
			writeErr = &WriteError{Path: file, Err: err}
		}

		result.Failures = append(result.Failures, writeErr)
	}

	return result
}
