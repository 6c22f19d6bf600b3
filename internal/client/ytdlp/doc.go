// Package ytdlp drives the yt-dlp executable to extract media metadata and
// download audio. Probe results are memoized in an LRU cache, and progress
// reported by yt-dlp is translated into ProgressEvent values.
package ytdlp
