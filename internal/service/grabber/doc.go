// Package grabber resolves source locators into downloadable items and drives
// the downloader over them one item at a time. It owns the run state machine,
// the selection model for collections and the per-run log.
package grabber
