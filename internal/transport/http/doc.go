// Package http provides the round trippers used for the few direct HTTP requests
// the application makes, such as fetching cover images: debug logging of
// requests and responses, and User-Agent injection.
package http
