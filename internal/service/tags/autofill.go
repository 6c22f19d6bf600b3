package tags

import (
	"path/filepath"
	"strconv"
	"strings"
)

// filenameSeparator splits "Artist - Title" file names.
const filenameSeparator = " - "

// CommonFields are values applied to every file of a working set.
type CommonFields struct {
	// Artist overrides the artist derived from each file name when non-empty.
	Artist string
	// Album is assigned to every file.
	Album string
}

// ParseFilename derives an artist and a title from a file name without its extension.
// "Artist - Title" splits on the first separator; any other name is all title.
func ParseFilename(path string) (artist, title string) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	if left, right, ok := strings.Cut(name, filenameSeparator); ok {
		return strings.TrimSpace(left), strings.TrimSpace(right)
	}

	return "", strings.TrimSpace(name)
}

// AutoFill derives a record for every file from its name and its 1-based position.
// The result depends only on its arguments.
func AutoFill(files []string, common CommonFields) map[string]TagRecord {
	result := make(map[string]TagRecord, len(files))

	for i, file := range files {
		artist, title := ParseFilename(file)
		if common.Artist != "" {
			artist = common.Artist
		}

		result[file] = TagRecord{
			Artist: artist,
			Album:  common.Album,
			Title:  title,
			Track:  strconv.Itoa(i + 1),
		}
	}

	return result
}
