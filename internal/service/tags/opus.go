package tags

import (
	"encoding/base64"

	"github.com/go-flac/flacpicture"

	"github.com/oshokin/yt-audio-grabber/internal/ogg"
)

// Opus comment keys of the four record fields.
const (
	opusKeyArtist  = "artist"
	opusKeyAlbum   = "album"
	opusKeyTitle   = "title"
	opusKeyTrack   = "tracknumber"
	opusKeyPicture = "METADATA_BLOCK_PICTURE"
)

// opusCodec stores records in the OpusTags header of an ogg/opus file.
type opusCodec struct{}

// Decode reads the comment header. When a key repeats, the first value wins.
func (c *opusCodec) Decode(path string) (TagRecord, error) {
	comments, err := ogg.ReadComments(path)
	if err != nil {
		return TagRecord{}, err
	}

	return TagRecord{
		Artist: comments.Get(opusKeyArtist),
		Album:  comments.Get(opusKeyAlbum),
		Title:  comments.Get(opusKeyTitle),
		Track:  comments.Get(opusKeyTrack),
	}, nil
}

// Encode replaces the four comments, keeping the vendor string and every other comment.
func (c *opusCodec) Encode(path string, record TagRecord) error {
	comments, err := ogg.ReadComments(path)
	if err != nil {
		return err
	}

	comments.Set(opusKeyArtist, record.Artist)
	comments.Set(opusKeyAlbum, record.Album)
	comments.Set(opusKeyTitle, record.Title)
	comments.Set(opusKeyTrack, record.Track)

	return ogg.WriteComments(path, comments)
}

// EmbedCover stores the cover as a base64 FLAC picture block, the form opus players read.
func (c *opusCodec) EmbedCover(path string, cover *Cover) error {
	comments, err := ogg.ReadComments(path)
	if err != nil {
		return err
	}

	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", cover.Data, cover.MIMEType)
	if err != nil {
		return err
	}

	block := picture.Marshal()
	comments.Set(opusKeyPicture, base64.StdEncoding.EncodeToString(block.Data))

	return ogg.WriteComments(path, comments)
}
