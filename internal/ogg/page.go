package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Header type flags.
const (
	// FlagContinued marks a page whose first packet continues from the previous page.
	FlagContinued byte = 0x01
	// FlagBOS marks the first page of a logical stream.
	FlagBOS byte = 0x02
	// FlagEOS marks the last page of a logical stream.
	FlagEOS byte = 0x04
)

const (
	// headerSize is the fixed part of a page header, before the lacing table.
	headerSize = 27
	// maxSegments is the largest lacing table a page can carry.
	maxSegments = 255
	// maxLacing is the lacing value that means "the packet continues".
	maxLacing = 255
	// checksumOffset is where the CRC is stored in the page header.
	checksumOffset = 22
)

//nolint:gochecknoglobals // Immutable capture pattern.
var capturePattern = []byte("OggS")

var (
	// ErrBadCapture indicates that a page does not start with "OggS".
	ErrBadCapture = errors.New("missing ogg capture pattern")
	// ErrUnsupportedVersion indicates an ogg stream structure version other than 0.
	ErrUnsupportedVersion = errors.New("unsupported ogg version")
	// ErrChecksumMismatch indicates a page whose CRC does not match its contents.
	ErrChecksumMismatch = errors.New("ogg page checksum mismatch")
	// ErrTruncated indicates that the stream ends in the middle of a page or packet.
	ErrTruncated = errors.New("truncated ogg stream")
)

// Page is a single ogg page.
type Page struct {
	// HeaderType holds the continued/BOS/EOS flags.
	HeaderType byte
	// GranulePosition is the codec-specific position of the last packet completed on this page.
	GranulePosition uint64
	// SerialNumber identifies the logical stream.
	SerialNumber uint32
	// SequenceNumber is the page index within the logical stream.
	SequenceNumber uint32
	// Segments is the lacing table.
	Segments []byte
	// Payload is the concatenation of all segments.
	Payload []byte
}

// IsBOS reports whether the page starts a logical stream.
func (p *Page) IsBOS() bool {
	return p.HeaderType&FlagBOS != 0
}

// ReadPage reads and verifies the next page from r.
// It returns io.EOF when r is exhausted exactly at a page boundary.
func ReadPage(r io.Reader) (*Page, error) {
	header := make([]byte, headerSize)

	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	if string(header[:4]) != string(capturePattern) {
		return nil, ErrBadCapture
	}

	if header[4] != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[4])
	}

	p := &Page{
		HeaderType:      header[5],
		GranulePosition: binary.LittleEndian.Uint64(header[6:14]),
		SerialNumber:    binary.LittleEndian.Uint32(header[14:18]),
		SequenceNumber:  binary.LittleEndian.Uint32(header[18:22]),
		Segments:        make([]byte, header[26]),
	}

	if _, err := io.ReadFull(r, p.Segments); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	payloadSize := 0
	for _, lacing := range p.Segments {
		payloadSize += int(lacing)
	}

	p.Payload = make([]byte, payloadSize)

	if _, err := io.ReadFull(r, p.Payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	stored := binary.LittleEndian.Uint32(header[checksumOffset:])
	if computed := binary.LittleEndian.Uint32(p.Encode()[checksumOffset:]); computed != stored {
		return nil, fmt.Errorf("%w: page %d", ErrChecksumMismatch, p.SequenceNumber)
	}

	return p, nil
}

// Encode serializes the page and fills in its checksum.
func (p *Page) Encode() []byte {
	buf := make([]byte, headerSize+len(p.Segments)+len(p.Payload))

	copy(buf, capturePattern)
	buf[5] = p.HeaderType
	binary.LittleEndian.PutUint64(buf[6:14], p.GranulePosition)
	binary.LittleEndian.PutUint32(buf[14:18], p.SerialNumber)
	binary.LittleEndian.PutUint32(buf[18:22], p.SequenceNumber)
	buf[26] = byte(len(p.Segments))
	copy(buf[headerSize:], p.Segments)
	copy(buf[headerSize+len(p.Segments):], p.Payload)

	binary.LittleEndian.PutUint32(buf[checksumOffset:], Checksum(buf))

	return buf
}

// Paginate splits one packet into as many pages as its lacing table requires.
// Pages after the first carry FlagContinued.
func Paginate(packet []byte, serial, firstSequence uint32, granule uint64) []*Page {
	lacing := make([]byte, 0, len(packet)/maxLacing+1)
	for remaining := len(packet); ; remaining -= maxLacing {
		if remaining < maxLacing {
			lacing = append(lacing, byte(remaining))

			break
		}

		lacing = append(lacing, maxLacing)
	}

	var (
		pages  []*Page
		offset int
	)

	for start := 0; start < len(lacing); start += maxSegments {
		end := min(start+maxSegments, len(lacing))

		size := 0
		for _, l := range lacing[start:end] {
			size += int(l)
		}

		page := &Page{
			GranulePosition: granule,
			SerialNumber:    serial,
			SequenceNumber:  firstSequence + uint32(len(pages)), //nolint:gosec // Page counts are tiny.
			Segments:        lacing[start:end],
			Payload:         packet[offset : offset+size],
		}

		if start > 0 {
			page.HeaderType |= FlagContinued
		}

		pages = append(pages, page)
		offset += size
	}

	return pages
}
