// Package artwork loads cover images from local files or over HTTP.
package artwork
