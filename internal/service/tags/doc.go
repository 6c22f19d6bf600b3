// Package tags reads and writes the artist, album, title and track number of audio files.
//
// One Codec exists per container family (ID3 for MP3, Vorbis comments for FLAC,
// OpusTags for ogg/opus and iTunes atoms for M4A) and is selected by file extension.
// A WorkingSet holds the in-memory records of a directory between load and save.
package tags
