package tags

import (
	"path/filepath"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// Vorbis comment keys of the four record fields.
const (
	vorbisKeyArtist = "ARTIST"
	vorbisKeyAlbum  = "ALBUM"
	vorbisKeyTitle  = "TITLE"
	vorbisKeyTrack  = "TRACKNUMBER"
)

// flacCodec stores records in the Vorbis comment block of a FLAC file.
type flacCodec struct{}

// Decode reads the Vorbis comment block. A file without one yields an empty record.
func (c *flacCodec) Decode(path string) (TagRecord, error) {
	f, err := flac.ParseFile(filepath.Clean(path))
	if err != nil {
		return TagRecord{}, err
	}

	comment, _ := findVorbisComment(f)
	if comment == nil {
		return TagRecord{}, nil
	}

	return TagRecord{
		Artist: firstVorbisValue(comment, vorbisKeyArtist),
		Album:  firstVorbisValue(comment, vorbisKeyAlbum),
		Title:  firstVorbisValue(comment, vorbisKeyTitle),
		Track:  firstVorbisValue(comment, vorbisKeyTrack),
	}, nil
}

// Encode replaces the four comments, keeping every other comment.
func (c *flacCodec) Encode(path string, record TagRecord) error {
	f, err := flac.ParseFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	comment, index := findVorbisComment(f)
	if comment == nil {
		comment = flacvorbis.New()
	}

	values := map[string]string{
		vorbisKeyArtist: record.Artist,
		vorbisKeyAlbum:  record.Album,
		vorbisKeyTitle:  record.Title,
		vorbisKeyTrack:  record.Track,
	}

	kept := make([]string, 0, len(comment.Comments))

	for _, entry := range comment.Comments {
		name, _, _ := strings.Cut(entry, "=")
		if _, replaced := values[strings.ToUpper(name)]; !replaced {
			kept = append(kept, entry)
		}
	}

	comment.Comments = kept

	for _, key := range []string{vorbisKeyArtist, vorbisKeyAlbum, vorbisKeyTitle, vorbisKeyTrack} {
		if values[key] == "" {
			continue
		}

		if err = comment.Add(key, values[key]); err != nil {
			return err
		}
	}

	commentMeta := comment.Marshal()
	if index >= 0 {
		f.Meta[index] = &commentMeta
	} else {
		f.Meta = append(f.Meta, &commentMeta)
	}

	return f.Save(path)
}

// EmbedCover replaces the front cover picture block.
func (c *flacCodec) EmbedCover(path string, cover *Cover) error {
	f, err := flac.ParseFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", cover.Data, cover.MIMEType)
	if err != nil {
		return err
	}

	kept := make([]*flac.MetaDataBlock, 0, len(f.Meta)+1)

	for _, meta := range f.Meta {
		if meta.Type == flac.Picture {
			existing, parseErr := flacpicture.ParseFromMetaDataBlock(*meta)
			if parseErr == nil && existing.PictureType == flacpicture.PictureTypeFrontCover {
				continue
			}
		}

		kept = append(kept, meta)
	}

	pictureMeta := picture.Marshal()
	f.Meta = append(kept, &pictureMeta)

	return f.Save(path)
}

// findVorbisComment returns the first parsable Vorbis comment block and its index, or nil and -1.
func findVorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int) {
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}

		comment, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err == nil {
			return comment, idx
		}
	}

	return nil, -1
}

func firstVorbisValue(comment *flacvorbis.MetaDataBlockVorbisComment, key string) string {
	values, err := comment.Get(key)
	if err != nil || len(values) == 0 {
		return ""
	}

	return values[0]
}
