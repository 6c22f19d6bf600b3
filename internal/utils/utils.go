package utils

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidIndexList indicates that an item list such as "1,3,5-7" cannot be parsed.
var ErrInvalidIndexList = errors.New("invalid index list")

// indexRangePattern matches a single index ("4") or an inclusive range ("2-7").
//
//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
var indexRangePattern = regexp.MustCompile(`^(?P<start>\d+)(?:\s*-\s*(?P<end>\d+))?$`)

// textContentTypePatterns match the media types whose bodies are safe to log.
//
//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
var textContentTypePatterns = []*regexp.Regexp{
	regexp.MustCompile("^text/.+"),
	regexp.MustCompile(`^application/(.+\+)?json$`),
	regexp.MustCompile(`^application/(.+\+)?xml$`),
}

// SafeUint64ToInt64 converts a uint64 value to an int64 safely,
// ensuring that the value does not exceed the maximum limit of int64.
func SafeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}

// SafeInt64ToUint64 converts an int64 value to a uint64, clamping negative values to zero.
func SafeInt64ToUint64(val int64) uint64 {
	if val < 0 {
		return 0
	}

	return uint64(val)
}

// SetFileExtension ensures the file has the specified extension.
// If the filename already has the correct extension, it is returned unchanged.
// If the filename has a different extension, the old extension is replaced with the new one
// when isExtensionReplaced is set, otherwise the new extension is appended.
func SetFileExtension(filename, extension string, isExtensionReplaced bool) string {
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	currentExt := filepath.Ext(filename)
	if currentExt == extension {
		return filename
	}

	if isExtensionReplaced {
		filename = strings.TrimSuffix(filename, currentExt)
	}

	return filename + extension
}

// IsFileExist checks if a file exists at the specified path.
// It returns true if the file exists and is not a directory, false if the file does not exist,
// and an error if there was an issue accessing the file.
func IsFileExist(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// ReadUniqueLinesFromFile reads a text file and returns a slice of unique non-empty lines.
// It skips empty lines and ensures that each line in the returned slice is unique.
func ReadUniqueLinesFromFile(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer file.Close() //nolint:errcheck // Error on close is not critical here.

	var (
		uniqueLines = make(map[string]struct{})
		lines       []string
		scanner     = bufio.NewScanner(file)
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if _, exists := uniqueLines[line]; !exists {
			uniqueLines[line] = struct{}{}

			lines = append(lines, line)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// ExtractNamedGroup extracts the value of a named capturing group from a regex match.
// It returns an empty string if the group is not found or if there is no match.
func ExtractNamedGroup(re *regexp.Regexp, groupName, input string) string {
	match := re.FindStringSubmatch(input)
	if match == nil {
		return ""
	}

	for i, name := range re.SubexpNames() {
		if name == groupName {
			return match[i]
		}
	}

	return ""
}

// ParseIndexList parses a comma-separated list of 1-based indexes and ranges ("1,3,5-7")
// into sorted, unique 0-based indexes. Every index must be within [1, count].
func ParseIndexList(list string, count int) ([]int, error) {
	seen := make(map[int]struct{})

	for part := range strings.SplitSeq(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !indexRangePattern.MatchString(part) {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidIndexList, part)
		}

		start, _ := strconv.Atoi(ExtractNamedGroup(indexRangePattern, "start", part))
		end := start

		if rawEnd := ExtractNamedGroup(indexRangePattern, "end", part); rawEnd != "" {
			end, _ = strconv.Atoi(rawEnd)
		}

		if start < 1 || end > count || start > end {
			return nil, fmt.Errorf("%w: '%s' is outside 1-%d", ErrInvalidIndexList, part, count)
		}

		for i := start; i <= end; i++ {
			seen[i-1] = struct{}{}
		}
	}

	result := make([]int, 0, len(seen))
	for i := range seen {
		result = append(result, i)
	}

	slices.Sort(result)

	return result, nil
}

// FormatClock renders a duration in seconds as "m:ss" or "h:mm:ss".
// Non-positive values yield an empty string.
func FormatClock(seconds int64) string {
	if seconds <= 0 {
		return ""
	}

	const (
		secondsPerMinute = 60
		secondsPerHour   = 60 * secondsPerMinute
	)

	hours := seconds / secondsPerHour
	minutes := (seconds % secondsPerHour) / secondsPerMinute
	secs := seconds % secondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}

	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// IsTextContentType reports whether contentType is a text-based format
// ("text/*", JSON or XML) with no charset or a UTF-8 compatible one.
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}
