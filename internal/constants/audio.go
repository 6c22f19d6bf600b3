package constants

import "strings"

// FormatKey identifies one of the supported output audio formats.
type FormatKey string

// Supported output formats.
const (
	// FormatOpus keeps the original opus stream without re-encoding.
	FormatOpus FormatKey = "opus"
	// FormatMP3 transcodes to MP3.
	FormatMP3 FormatKey = "mp3"
	// FormatAAC transcodes to AAC inside an M4A container.
	FormatAAC FormatKey = "aac"
	// FormatFLAC transcodes to lossless FLAC.
	FormatFLAC FormatKey = "flac"
)

// DefaultFormatKey is used whenever a stored format cannot be recognized.
const DefaultFormatKey = FormatOpus

// AudioFormatSpec describes the codec and container a run produces.
type AudioFormatSpec struct {
	// Key is the short name of the format.
	Key FormatKey
	// TargetCodec is the codec name passed to the extractor.
	TargetCodec string
	// TargetContainerExt is the extension of the produced file, including the dot.
	TargetContainerExt string
	// RequiresExternalTranscoder is true when ffmpeg must be present before the run starts.
	RequiresExternalTranscoder bool
}

//nolint:gochecknoglobals // Immutable lookup tables.
var (
	audioFormats = []AudioFormatSpec{
		{Key: FormatOpus, TargetCodec: "opus", TargetContainerExt: ExtensionOpus},
		{Key: FormatMP3, TargetCodec: "mp3", TargetContainerExt: ExtensionMP3, RequiresExternalTranscoder: true},
		{Key: FormatAAC, TargetCodec: "aac", TargetContainerExt: ExtensionM4A, RequiresExternalTranscoder: true},
		{Key: FormatFLAC, TargetCodec: "flac", TargetContainerExt: ExtensionFLAC, RequiresExternalTranscoder: true},
	}

	// legacyFormatNames maps display names stored by older releases to format keys.
	legacyFormatNames = map[string]FormatKey{
		"opus (원본, 변환 없음)": FormatOpus,
		"opus (original)":  FormatOpus,
		"mp3 (192kbps)":    FormatMP3,
		"aac (192kbps)":    FormatAAC,
	}
)

// AudioFormatKeys returns the keys of every supported format.
func AudioFormatKeys() []string {
	keys := make([]string, 0, len(audioFormats))
	for _, f := range audioFormats {
		keys = append(keys, string(f.Key))
	}

	return keys
}

// ResolveAudioFormat finds the format for a key or a legacy display name.
// The lookup is case-insensitive.
func ResolveAudioFormat(name string) (AudioFormatSpec, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	if key, ok := legacyFormatNames[normalized]; ok {
		normalized = string(key)
	}

	for _, f := range audioFormats {
		if string(f.Key) == normalized {
			return f, true
		}
	}

	return AudioFormatSpec{}, false
}
