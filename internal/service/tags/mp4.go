package tags

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gomp4 "github.com/abema/go-mp4"
	"github.com/dhowden/tag"
	"github.com/zhaarey/go-mp4tag"
)

const (
	// mp4TrackAtom is the raw key of the (number, total) track atom.
	mp4TrackAtom = "trkn"
	// mp4TrackNumberOffset is the position of the track number inside the data payload,
	// after the type and locale words and two reserved bytes.
	mp4TrackNumberOffset = 10
)

// mp4TrackDataPath locates the data box of the track atom.
//
//nolint:gochecknoglobals // Immutable box path.
var mp4TrackDataPath = gomp4.BoxPath{
	gomp4.StrToBoxType("moov"),
	gomp4.StrToBoxType("udta"),
	gomp4.StrToBoxType("meta"),
	gomp4.StrToBoxType("ilst"),
	gomp4.StrToBoxType(mp4TrackAtom),
	gomp4.StrToBoxType("data"),
}

// mp4Codec stores records in iTunes-style MP4 atoms.
// The track atom is a (number, total) pair: only the number is modeled and the total is written as 0.
// Every write leaves a track atom behind, so a blank or non-numeric track reads back as "0".
type mp4Codec struct{}

// Decode reads the artist, album, title and track atoms.
func (c *mp4Codec) Decode(path string) (TagRecord, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return TagRecord{}, err
	}

	defer f.Close() //nolint:errcheck // Read-only handle.

	metadata, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return TagRecord{}, nil
		}

		return TagRecord{}, err
	}

	record := TagRecord{
		Artist: metadata.Artist(),
		Album:  metadata.Album(),
		Title:  metadata.Title(),
	}

	if _, ok := metadata.Raw()[mp4TrackAtom]; ok {
		number, _ := metadata.Track()
		record.Track = strconv.Itoa(number)
	}

	return record, nil
}

// Encode writes the atoms. A blank or non-numeric track is stored as 0.
func (c *mp4Codec) Encode(path string, record TagRecord) error {
	file, err := mp4tag.Open(path)
	if err != nil {
		return err
	}

	track := ParseMP4Track(record.Track)

	tags := &mp4tag.MP4Tags{
		Artist:      record.Artist,
		Album:       record.Album,
		Title:       record.Title,
		TrackNumber: max(track, 1),
		TrackTotal:  0,
	}

	err = file.Write(tags, emptyMP4Fields(record))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil || track > 0 {
		return err
	}

	// The tag writer skips a zero track number, so a placeholder is written and cleared here.
	return zeroMP4Track(path)
}

// zeroMP4Track overwrites the number of the track atom with 0 in place.
func zeroMP4Track(path string) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_RDWR, 0)
	if err != nil {
		return err
	}

	boxes, err := gomp4.ExtractBox(f, nil, mp4TrackDataPath)
	if err == nil && len(boxes) == 0 {
		err = ErrMissingTrackAtom
	}

	if err == nil {
		data := boxes[0]
		//nolint:gosec // Box offsets come from a file that was just written.
		_, err = f.WriteAt([]byte{0, 0}, int64(data.Offset+data.HeaderSize+mp4TrackNumberOffset))
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	return err
}

// emptyMP4Fields lists the atoms to delete before writing.
// Blank text fields are dropped, and the track pair is always cleared so no stale number or total survives.
func emptyMP4Fields(record TagRecord) []string {
	deleted := []string{"tracknumber", "tracktotal"}

	if record.Artist == "" {
		deleted = append(deleted, "artist")
	}

	if record.Album == "" {
		deleted = append(deleted, "album")
	}

	if record.Title == "" {
		deleted = append(deleted, "title")
	}

	return deleted
}

// ParseMP4Track converts a free-form track into the integer the track atom holds.
// Surrounding whitespace is ignored, so " 12 " becomes 12.
// Anything else that is not a plain non-negative number in int16 range becomes 0.
func ParseMP4Track(track string) int16 {
	n, err := strconv.ParseInt(strings.TrimSpace(track), 10, 16)
	if err != nil || n < 0 {
		return 0
	}

	return int16(n)
}
