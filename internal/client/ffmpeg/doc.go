// Package ffmpeg checks whether the ffmpeg transcoder is available.
package ffmpeg
