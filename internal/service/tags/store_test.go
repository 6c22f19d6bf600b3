package tags

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/oshokin/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhaarey/go-mp4tag"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/ogg"
)

// TestReadTags_NoHeader tests that files without any tag header read as empty records.
func TestReadTags_NoHeader(t *testing.T) {
	t.Parallel()

	store := NewStore(1)
	dir := t.TempDir()

	for _, name := range []string{"a.mp3", "b.opus", "c.m4a", "d.flac", "e.wav", "f.MP3"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := touch(t, dir, name)

			assert.Equal(t, TagRecord{}, store.ReadTags(context.Background(), path))
		})
	}
}

// TestReadTags_CorruptFile tests that unreadable files never fail the read.
func TestReadTags_CorruptFile(t *testing.T) {
	t.Parallel()

	store := NewStore(1)
	dir := t.TempDir()

	for _, name := range []string{"a.opus", "b.m4a", "c.flac"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("garbage", 20)), constants.DefaultFilePermissions))

		assert.Equal(t, TagRecord{}, store.ReadTags(context.Background(), path), name)
	}

	assert.Equal(t, TagRecord{}, store.ReadTags(context.Background(), filepath.Join(dir, "missing.mp3")))
}

// TestReadTags_CodecPanic tests that a panicking tag reader yields an empty record during a scan.
func TestReadTags_CodecPanic(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		dir   = t.TempDir()
		codec = newMemoryCodec()
		store = NewStoreWithCodecs(2, map[string]Codec{
			constants.ExtensionMP3:  codec,
			constants.ExtensionOpus: panickingCodec{},
		})
	)

	good := touch(t, dir, "a.mp3")
	bad := touch(t, dir, "b.opus")
	codec.stored[good] = TagRecord{Title: "A"}

	assert.Equal(t, TagRecord{}, store.ReadTags(ctx, bad))

	ws, err := store.Open(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{good, bad}, ws.Files())

	record, ok := ws.Record(bad)
	assert.True(t, ok)
	assert.Equal(t, TagRecord{}, record)

	record, _ = ws.Record(good)
	assert.Equal(t, TagRecord{Title: "A"}, record)
}

// TestRoundTrip tests write-then-read for the file-backed codecs.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		file   string
		create func(t *testing.T, path string)
		// expected maps a written record to the one read back, nil means unchanged.
		expected func(record TagRecord) TagRecord
	}{
		{
			name: "id3 on a file without header",
			file: "song.mp3",
			create: func(t *testing.T, path string) {
				t.Helper()
				require.NoError(t, os.WriteFile(path, nil, constants.DefaultFilePermissions))
			},
		},
		{
			name: "vorbis comments in flac",
			file: "song.flac",
			create: func(t *testing.T, path string) {
				t.Helper()
				writeMinimalFLAC(t, path)
			},
		},
		{
			name: "opus comment header",
			file: "song.opus",
			create: func(t *testing.T, path string) {
				t.Helper()
				writeMinimalOpus(t, path, "ENCODER=test", "artist=Old")
			},
		},
		{
			name: "itunes atoms in m4a",
			file: "roundtrip.m4a",
			create: func(t *testing.T, path string) {
				t.Helper()
				writeMinimalM4A(t, path)
			},
			expected: func(record TagRecord) TagRecord {
				record.Track = strconv.Itoa(int(ParseMP4Track(record.Track)))

				return record
			},
		},
	}

	records := []TagRecord{
		{Artist: "Artist", Album: "Album", Title: "Title", Track: "7"},
		{Artist: "Кино", Album: "Группа крови", Title: "Звезда по имени Солнце", Track: "3/12"},
		{Artist: "Only Artist"},
		{},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				ctx   = context.Background()
				store = NewStore(1)
				path  = filepath.Join(t.TempDir(), tt.file)
			)

			tt.create(t, path)

			for _, record := range records {
				expected := record
				if tt.expected != nil {
					expected = tt.expected(record)
				}

				require.NoError(t, store.WriteTags(ctx, path, record))
				assert.Equal(t, expected, store.ReadTags(ctx, path))
			}
		})
	}
}

// TestOpusEncode_PreservesOtherComments tests that unrelated opus comments survive a write.
func TestOpusEncode_PreservesOtherComments(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "song.opus")
	writeMinimalOpus(t, path, "ENCODER=test", "ARTIST=First", "artist=Second")

	codec := new(opusCodec)

	record, err := codec.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "First", record.Artist)

	require.NoError(t, codec.Encode(path, TagRecord{Artist: "New", Title: "T"}))

	comments, err := ogg.ReadComments(path)
	require.NoError(t, err)
	assert.Equal(t, "test", comments.Get("encoder"))
	assert.Equal(t, []string{"ENCODER=test", "artist=New", "title=T"}, comments.Fields)
}

// TestMP4Codec_Track tests how free-form tracks are stored in a real track atom.
func TestMP4Codec_Track(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		track    string
		expected string
	}{
		{name: "number", track: "5", expected: "5"},
		{name: "padded number", track: " 12 ", expected: "12"},
		{name: "blank", track: "", expected: "0"},
		{name: "letters", track: "abc", expected: "0"},
		{name: "number with total", track: "3/12", expected: "0"},
		{name: "negative", track: "-4", expected: "0"},
		{name: "out of range", track: "99999", expected: "0"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// The tag writer stages files under the base name, so every case gets its own.
			path := filepath.Join(t.TempDir(), "track-"+strconv.Itoa(i)+".m4a")
			writeMinimalM4A(t, path)

			codec := new(mp4Codec)
			record := TagRecord{Artist: "A", Album: "B", Title: "C", Track: tt.track}

			require.NoError(t, codec.Encode(path, record))

			got, err := codec.Decode(path)
			require.NoError(t, err)

			record.Track = tt.expected
			assert.Equal(t, record, got)
		})
	}
}

// TestMP4Codec_ReplacesStaleTrack tests that a write never keeps the previous track number or total.
func TestMP4Codec_ReplacesStaleTrack(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stale.m4a")
	writeMinimalM4A(t, path, mp4TrackItem(5, 9))

	codec := new(mp4Codec)

	got, err := codec.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, TagRecord{Track: "5"}, got)

	steps := []struct {
		track    string
		expected string
		number   int16
	}{
		{track: "", expected: "0", number: 0},
		{track: "7", expected: "7", number: 7},
		{track: "abc", expected: "0", number: 0},
	}

	for _, step := range steps {
		require.NoError(t, codec.Encode(path, TagRecord{Title: "T", Track: step.track}))

		got, err = codec.Decode(path)
		require.NoError(t, err)
		assert.Equal(t, TagRecord{Title: "T", Track: step.expected}, got, "track %q", step.track)

		file, err := mp4tag.Open(path)
		require.NoError(t, err)

		atoms, err := file.Read()
		require.NoError(t, file.Close())
		require.NoError(t, err)

		assert.Equal(t, step.number, atoms.TrackNumber, "track %q", step.track)
		assert.Zero(t, atoms.TrackTotal, "track %q", step.track)
	}
}

// TestParseMP4Track tests the conversion of free-form tracks to the atom integer.
func TestParseMP4Track(t *testing.T) {
	t.Parallel()

	tests := map[string]int16{
		"1":     1,
		"42":    42,
		" 12 ":  12,
		"\t3\n": 3,
		"":      0,
		"two":   0,
		"3/12":  0,
		"-4":    0,
		"32767": 32767,
		"32768": 0,
	}

	for track, expected := range tests {
		assert.Equal(t, expected, ParseMP4Track(track), "track %q", track)
	}
}

// TestEmptyMP4Fields tests which atoms are deleted before a write.
func TestEmptyMP4Fields(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"tracknumber", "tracktotal"},
		emptyMP4Fields(TagRecord{Artist: "a", Album: "b", Title: "c", Track: "1"}))
	assert.Equal(t, []string{"tracknumber", "tracktotal", "artist", "album", "title"},
		emptyMP4Fields(TagRecord{Track: "1"}))
}

// TestWriteTags_Errors tests the errors returned for unsupported and failing files.
func TestWriteTags_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(1)
	dir := t.TempDir()

	err := store.WriteTags(ctx, touch(t, dir, "a.wav"), TagRecord{Title: "x"})

	var writeErr *WriteError

	require.ErrorAs(t, err, &writeErr)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, writeErr.Path, "a.wav")

	err = store.WriteTags(ctx, touch(t, dir, "b.flac"), TagRecord{Title: "x"})
	require.ErrorAs(t, err, &writeErr)
}

// TestEmbedCover tests embedding a cover for each container family.
func TestEmbedCover(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		store = NewStore(1)
		dir   = t.TempDir()
		cover = testCover(t)
	)

	mp3Path := touch(t, dir, "a.mp3")
	require.NoError(t, store.WriteTags(ctx, mp3Path, TagRecord{Title: "T"}))
	require.NoError(t, store.EmbedCover(ctx, mp3Path, cover))

	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	require.NoError(t, err)

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	require.NoError(t, tag.Close())
	assert.Len(t, pictures, 1)
	assert.Equal(t, "T", store.ReadTags(ctx, mp3Path).Title)

	flacPath := filepath.Join(dir, "b.flac")
	writeMinimalFLAC(t, flacPath)
	require.NoError(t, store.WriteTags(ctx, flacPath, TagRecord{Album: "A"}))
	require.NoError(t, store.EmbedCover(ctx, flacPath, cover))
	require.NoError(t, store.EmbedCover(ctx, flacPath, cover))
	assert.Equal(t, "A", store.ReadTags(ctx, flacPath).Album)

	opusPath := filepath.Join(dir, "c.opus")
	writeMinimalOpus(t, opusPath, "title=Song")
	require.NoError(t, store.EmbedCover(ctx, opusPath, cover))

	comments, err := ogg.ReadComments(opusPath)
	require.NoError(t, err)
	assert.NotEmpty(t, comments.Get(opusKeyPicture))
	assert.Equal(t, "Song", comments.Get(opusKeyTitle))

	err = store.EmbedCover(ctx, touch(t, dir, "d.m4a"), cover)
	require.ErrorIs(t, err, ErrCoverUnsupported)
}

// TestOpen tests loading a directory concurrently.
func TestOpen(t *testing.T) {
	t.Parallel()

	var (
		ctx   = context.Background()
		dir   = t.TempDir()
		codec = newMemoryCodec()
		store = NewStoreWithCodecs(3, map[string]Codec{constants.ExtensionMP3: codec, constants.ExtensionOpus: codec})
	)

	names := []string{"c.mp3", "a.opus", "b.MP3", "notes.txt", "e.flac"}
	for _, name := range names {
		touch(t, dir, name)
	}

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp3"), constants.DefaultFolderPermissions))

	codec.stored[filepath.Join(dir, "c.mp3")] = TagRecord{Title: "C"}

	ws, err := store.Open(ctx, dir)
	require.NoError(t, err)

	expected := []string{filepath.Join(dir, "a.opus"), filepath.Join(dir, "b.MP3"), filepath.Join(dir, "c.mp3")}
	assert.Equal(t, expected, ws.Files())

	record, ok := ws.Record(filepath.Join(dir, "c.mp3"))
	assert.True(t, ok)
	assert.Equal(t, "C", record.Title)

	single, err := store.Open(ctx, filepath.Join(dir, "c.mp3"))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())

	_, err = store.Open(ctx, filepath.Join(dir, "notes.txt"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = store.Open(ctx, filepath.Join(dir, "missing"))
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = store.Open(cancelled, dir)
	require.ErrorIs(t, err, context.Canceled)
}

// TestSupportedExtensions tests the registry keys.
func TestSupportedExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".flac", ".m4a", ".mp3", ".opus"}, NewStore(1).SupportedExtensions())
}
