package ogg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/yt-audio-grabber/internal/constants"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

//nolint:gochecknoglobals // Immutable packet signatures.
var (
	opusHeadMagic = []byte("OpusHead")
	opusTagsMagic = []byte("OpusTags")
)

var (
	// ErrNotOpus indicates that the first packet is not an OpusHead header.
	ErrNotOpus = errors.New("not an ogg/opus stream")
	// ErrMalformedTags indicates an OpusTags packet whose lengths do not fit its size.
	ErrMalformedTags = errors.New("malformed OpusTags packet")
	// ErrUnsupportedLayout indicates a header layout this package does not rewrite,
	// such as audio data sharing a page with the comment header.
	ErrUnsupportedLayout = errors.New("unsupported ogg page layout")
)

// Comments is the content of an OpusTags packet.
type Comments struct {
	// Vendor is the encoder vendor string.
	Vendor string
	// Fields holds "KEY=value" entries in stream order.
	Fields []string
	// Trailing holds any bytes after the comment list, preserved verbatim.
	Trailing []byte
}

// Get returns the first value stored under key, compared case-insensitively.
func (c *Comments) Get(key string) string {
	for _, field := range c.Fields {
		name, value, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(name, key) {
			return value
		}
	}

	return ""
}

// Set replaces every value stored under key with a single value.
// An empty value removes the key.
func (c *Comments) Set(key, value string) {
	kept := c.Fields[:0]

	for _, field := range c.Fields {
		name, _, _ := strings.Cut(field, "=")
		if !strings.EqualFold(name, key) {
			kept = append(kept, field)
		}
	}

	c.Fields = kept

	if value != "" {
		c.Fields = append(c.Fields, key+"="+value)
	}
}

// ParseComments decodes an OpusTags packet.
func ParseComments(packet []byte) (*Comments, error) {
	if !bytes.HasPrefix(packet, opusTagsMagic) {
		return nil, fmt.Errorf("%w: missing OpusTags signature", ErrMalformedTags)
	}

	rest := packet[len(opusTagsMagic):]

	vendor, rest, err := readLengthPrefixed(rest)
	if err != nil {
		return nil, err
	}

	if len(rest) < 4 {
		return nil, fmt.Errorf("%w: missing comment count", ErrMalformedTags)
	}

	count := binary.LittleEndian.Uint32(rest)
	rest = rest[4:]

	// Each comment needs at least its 4-byte length.
	if uint64(count)*4 > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: comment count %d exceeds packet size", ErrMalformedTags, count)
	}

	c := &Comments{Vendor: string(vendor), Fields: make([]string, 0, count)}

	for range count {
		var field []byte

		field, rest, err = readLengthPrefixed(rest)
		if err != nil {
			return nil, err
		}

		c.Fields = append(c.Fields, string(field))
	}

	if len(rest) > 0 {
		c.Trailing = append([]byte(nil), rest...)
	}

	return c, nil
}

func readLengthPrefixed(data []byte) ([]byte, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("%w: missing length", ErrMalformedTags)
	}

	size := binary.LittleEndian.Uint32(data)
	data = data[4:]

	if uint64(size) > uint64(len(data)) {
		return nil, nil, fmt.Errorf("%w: length %d exceeds packet size", ErrMalformedTags, size)
	}

	return data[:size], data[size:], nil
}

// Marshal encodes the comments as an OpusTags packet.
func (c *Comments) Marshal() []byte {
	var buf bytes.Buffer

	buf.Write(opusTagsMagic)
	writeLengthPrefixed(&buf, c.Vendor)

	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(c.Fields))) //nolint:gosec // Bounded by memory.

	for _, field := range c.Fields {
		writeLengthPrefixed(&buf, field)
	}

	buf.Write(c.Trailing)

	return buf.Bytes()
}

func writeLengthPrefixed(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(s))) //nolint:gosec // Bounded by memory.
	buf.WriteString(s)
}

// header is the identification page plus the pages holding the comment packet.
type header struct {
	head      *Page
	tagsPages []*Page
	tags      []byte
}

// readHeader reads the OpusHead page and the OpusTags packet that follows it.
func readHeader(r io.Reader) (*header, error) {
	head, err := ReadPage(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotOpus
		}

		return nil, err
	}

	if !head.IsBOS() || !bytes.HasPrefix(head.Payload, opusHeadMagic) {
		return nil, ErrNotOpus
	}

	h := &header{head: head}

	for {
		page, err := ReadPage(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrTruncated
			}

			return nil, err
		}

		if page.SerialNumber != head.SerialNumber {
			return nil, fmt.Errorf("%w: interleaved logical streams", ErrUnsupportedLayout)
		}

		h.tagsPages = append(h.tagsPages, page)

		offset := 0

		for i, lacing := range page.Segments {
			h.tags = append(h.tags, page.Payload[offset:offset+int(lacing)]...)
			offset += int(lacing)

			if lacing == maxLacing {
				continue
			}

			if i != len(page.Segments)-1 {
				return nil, fmt.Errorf("%w: comment header shares a page", ErrUnsupportedLayout)
			}

			return h, nil
		}
	}
}

// ReadComments reads the OpusTags packet of an ogg/opus file.
func ReadComments(path string) (*Comments, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer f.Close() //nolint:errcheck // Read-only handle.

	h, err := readHeader(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}

	return ParseComments(h.tags)
}

// WriteComments replaces the OpusTags packet of an ogg/opus file.
// Later pages are renumbered and re-checksummed. The file is rewritten
// through a temporary sibling which is renamed over the original.
func WriteComments(path string, comments *Comments) error {
	src, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer src.Close() //nolint:errcheck // Read-only handle.

	r := bufio.NewReader(src)

	h, err := readHeader(r)
	if err != nil {
		return err
	}

	tempPath := utils.SetFileExtension(path, constants.ExtensionPart, false)

	if err = writeStream(tempPath, r, h, comments); err != nil {
		_ = os.Remove(tempPath)

		return err
	}

	if err = os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)

		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

func writeStream(tempPath string, rest io.Reader, h *header, comments *Comments) error {
	dst, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return err
	}

	defer dst.Close() //nolint:errcheck // Closed explicitly below on the success path.

	w := bufio.NewWriter(dst)
	serial := h.head.SerialNumber

	if _, err = w.Write(h.head.Encode()); err != nil {
		return err
	}

	newPages := Paginate(comments.Marshal(), serial, h.head.SequenceNumber+1, 0)
	for _, p := range newPages {
		if _, err = w.Write(p.Encode()); err != nil {
			return err
		}
	}

	delta := int64(len(newPages)) - int64(len(h.tagsPages))

	for {
		page, readErr := ReadPage(rest)
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return readErr
		}

		if page.SerialNumber == serial {
			page.SequenceNumber = uint32(int64(page.SequenceNumber) + delta) //nolint:gosec // Bounded by page count.
		}

		if _, err = w.Write(page.Encode()); err != nil {
			return err
		}
	}

	if err = w.Flush(); err != nil {
		return err
	}

	return dst.Close()
}
