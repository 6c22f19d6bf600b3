// Package app wires the configuration, the yt-dlp client and the services together
// and renders their output on the console. It backs the download command and the
// tag editing subcommands.
package app
