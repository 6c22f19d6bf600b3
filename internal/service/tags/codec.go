package tags

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
)

// Codec decodes and encodes a TagRecord for one container family.
type Codec interface {
	// Decode reads the record stored in the file.
	// A file without any tag header yields an empty record and no error.
	Decode(path string) (TagRecord, error)
	// Encode stores the record in the file, creating a tag header if none exists.
	// Empty fields are removed from the file.
	Encode(path string, record TagRecord) error
}

// CoverEmbedder is implemented by codecs that can embed a front cover.
type CoverEmbedder interface {
	// EmbedCover replaces the front cover of the file.
	EmbedCover(path string, cover *Cover) error
}

// DefaultCodecs returns the codec registry keyed by lower-case extension.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		constants.ExtensionMP3:  new(id3Codec),
		constants.ExtensionOpus: new(opusCodec),
		constants.ExtensionM4A:  new(mp4Codec),
		constants.ExtensionFLAC: new(flacCodec),
	}
}

// extensionOf returns the lower-case extension used as the registry key.
func extensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// supportedExtensions returns the sorted registry keys.
func supportedExtensions(codecs map[string]Codec) []string {
	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}

	slices.Sort(exts)

	return exts
}
