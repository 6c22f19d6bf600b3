package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/ogg"
)

// errInjectedWrite is returned by memoryCodec for files marked as failing.
var errInjectedWrite = errors.New("injected write failure")

// memoryCodec keeps records in memory and can be told to fail writes for given files.
type memoryCodec struct {
	mu      sync.Mutex
	stored  map[string]TagRecord
	failing map[string]bool
}

func newMemoryCodec() *memoryCodec {
	return &memoryCodec{
		stored:  make(map[string]TagRecord),
		failing: make(map[string]bool),
	}
}

func (c *memoryCodec) Decode(path string) (TagRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stored[path], nil
}

func (c *memoryCodec) Encode(path string, record TagRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failing[path] {
		return errInjectedWrite
	}

	c.stored[path] = record

	return nil
}

func (c *memoryCodec) get(path string) TagRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stored[path]
}

// panickingCodec fails every read with a panic, like a parser choking on a malformed file.
type panickingCodec struct{}

func (panickingCodec) Decode(string) (TagRecord, error) {
	panic("malformed header")
}

func (panickingCodec) Encode(string, TagRecord) error {
	return nil
}

// touch creates an empty file and returns its path.
func touch(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, nil, constants.DefaultFilePermissions))

	return path
}

// writeMinimalFLAC writes a FLAC stream holding only a STREAMINFO block.
func writeMinimalFLAC(t *testing.T, path string) {
	t.Helper()

	const streamInfoSize = 34

	data := []byte("fLaC")
	// Last-block flag set, block type 0 (STREAMINFO), 24-bit length.
	data = append(data, 0x80, 0, 0, streamInfoSize)
	streamInfo := make([]byte, streamInfoSize)
	// Minimum and maximum block size of 4096 samples.
	streamInfo[0], streamInfo[1], streamInfo[2], streamInfo[3] = 0x10, 0x00, 0x10, 0x00
	data = append(data, streamInfo...)

	require.NoError(t, os.WriteFile(path, data, constants.DefaultFilePermissions))
}

// writeMinimalOpus writes an ogg/opus stream with an empty comment header and one audio packet.
func writeMinimalOpus(t *testing.T, path string, fields ...string) {
	t.Helper()

	const serial = 42

	head := append([]byte("OpusHead"), 1, 2, 0x38, 0x01, 0x80, 0xbb, 0, 0, 0, 0, 0)
	headPage := ogg.Paginate(head, serial, 0, 0)[0]
	headPage.HeaderType |= ogg.FlagBOS

	comments := &ogg.Comments{Vendor: "test", Fields: fields}
	tagsPage := ogg.Paginate(comments.Marshal(), serial, 1, 0)[0]

	audioPage := ogg.Paginate([]byte{0xfc, 0xff, 0xfe}, serial, 2, 960)[0]
	audioPage.HeaderType |= ogg.FlagEOS

	var buf bytes.Buffer

	buf.Write(headPage.Encode())
	buf.Write(tagsPage.Encode())
	buf.Write(audioPage.Encode())

	require.NoError(t, os.WriteFile(path, buf.Bytes(), constants.DefaultFilePermissions))
}

// writeMinimalM4A writes an M4A file with a single chunk of audio and the given ilst items.
// The layout holds only the boxes the tag reader and writer need.
func writeMinimalM4A(t *testing.T, path string, items ...[]byte) {
	t.Helper()

	ftyp := mp4Box("ftyp", []byte("M4A "), []byte{0, 0, 0, 0}, []byte("M4A isom"))
	hdlr := mp4Box("hdlr", make([]byte, 8), []byte("mdirappl"), make([]byte, 9))
	moov := func(chunkOffset uint32) []byte {
		stco := mp4Box("stco", []byte{0, 0, 0, 0}, binary.BigEndian.AppendUint32(nil, 1),
			binary.BigEndian.AppendUint32(nil, chunkOffset))
		trak := mp4Box("trak", mp4Box("mdia", mp4Box("minf", mp4Box("stbl", stco))))
		meta := mp4Box("meta", []byte{0, 0, 0, 0}, hdlr, mp4Box("ilst", items...))

		return mp4Box("moov", trak, mp4Box("udta", meta))
	}

	// Sizes do not depend on the chunk offset, so the first pass gives the mdat position.
	header := len(ftyp) + len(moov(0))
	mdat := mp4Box("mdat", []byte{0xde, 0xad, 0xbe, 0xef})

	var buf bytes.Buffer

	buf.Write(ftyp)
	buf.Write(moov(uint32(header + 8))) //nolint:gosec // Tiny test file.
	buf.Write(mdat)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), constants.DefaultFilePermissions))
}

// mp4TrackItem returns a trkn ilst item holding the number and total.
func mp4TrackItem(number, total uint16) []byte {
	payload := make([]byte, 0, 16)
	// Implicit type, default locale and two reserved bytes.
	payload = append(payload, make([]byte, 10)...)
	payload = binary.BigEndian.AppendUint16(payload, number)
	payload = binary.BigEndian.AppendUint16(payload, total)
	payload = append(payload, 0, 0)

	return mp4Box("trkn", mp4Box("data", payload))
}

// mp4Box encodes a box with a 32-bit size header.
func mp4Box(name string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)

	box := binary.BigEndian.AppendUint32(nil, uint32(8+len(body))) //nolint:gosec // Tiny test boxes.
	box = append(box, name...)

	return append(box, body...)
}

// testCover returns a tiny PNG cover.
func testCover(t *testing.T) *Cover {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &Cover{Data: buf.Bytes(), MIMEType: "image/png"}
}
