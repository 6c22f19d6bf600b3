package tags

import (
	"github.com/oshokin/id3v2/v2"
)

// ID3v2 frame identifiers of the four record fields.
const (
	id3FrameArtist = "TPE1"
	id3FrameAlbum  = "TALB"
	id3FrameTitle  = "TIT2"
	id3FrameTrack  = "TRCK"
)

// id3Codec stores records in ID3v2 text frames.
type id3Codec struct{}

// Decode reads the four text frames. A file without an ID3 header yields an empty record.
func (c *id3Codec) Decode(path string) (TagRecord, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return TagRecord{}, err
	}

	defer tag.Close() //nolint:errcheck // Read-only access.

	return TagRecord{
		Artist: tag.GetTextFrame(id3FrameArtist).Text,
		Album:  tag.GetTextFrame(id3FrameAlbum).Text,
		Title:  tag.GetTextFrame(id3FrameTitle).Text,
		Track:  tag.GetTextFrame(id3FrameTrack).Text,
	}, nil
}

// Encode replaces the four text frames, keeping every other frame.
func (c *id3Codec) Encode(path string, record TagRecord) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}

	defer tag.Close() //nolint:errcheck // Save reports write failures.

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	setID3TextFrame(tag, id3FrameArtist, record.Artist)
	setID3TextFrame(tag, id3FrameAlbum, record.Album)
	setID3TextFrame(tag, id3FrameTitle, record.Title)
	setID3TextFrame(tag, id3FrameTrack, record.Track)

	return tag.Save()
}

// EmbedCover replaces every attached picture with the given front cover.
func (c *id3Codec) EmbedCover(path string, cover *Cover) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}

	defer tag.Close() //nolint:errcheck // Save reports write failures.

	tag.DeleteFrames(tag.CommonID("Attached picture"))

	//nolint:exhaustruct // Description field intentionally empty for cover images.
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    cover.MIMEType,
		PictureType: id3v2.PTFrontCover,
		Picture:     cover.Data,
	})

	return tag.Save()
}

func setID3TextFrame(tag *id3v2.Tag, id, value string) {
	tag.DeleteFrames(id)

	if value != "" {
		tag.AddTextFrame(id, tag.DefaultEncoding(), value)
	}
}
