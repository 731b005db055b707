package exifmeta

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/user/roadwatch/internal/domain"
)

// Field devices embed their inference result in the EXIF description as
// "Prediction: <code> Location: (lat, lng)".
var (
	predictionPattern = regexp.MustCompile(`Prediction:\s*(\d+)`)
	locationPattern   = regexp.MustCompile(`Location:\s*([\(\)\d\.,\s]+)`)
)

// Extract reads the device-embedded annotations from an image's EXIF data.
// Any failure (no EXIF, missing tags, unreadable comment) yields nil
// metadata; the image is still a valid record without it.
func Extract(r io.Reader) *domain.ImageMetadata {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}

	comment := tagString(x, exif.ImageDescription)
	if comment == "" {
		comment = tagString(x, exif.UserComment)
	}
	return ParseComment(comment)
}

// ParseComment decodes the description grammar into metadata. Returns nil
// when neither a prediction code nor a location can be extracted.
func ParseComment(comment string) *domain.ImageMetadata {
	comment = stripEncodingPrefix(comment)
	if comment == "" {
		return nil
	}

	meta := &domain.ImageMetadata{}
	if m := predictionPattern.FindStringSubmatch(comment); m != nil {
		if code, err := strconv.Atoi(m[1]); err == nil {
			if label, ok := domain.PredictionFromCode(code); ok {
				meta.Prediction = string(label)
			}
		}
	}
	if m := locationPattern.FindStringSubmatch(comment); m != nil {
		meta.Location = strings.TrimSpace(m[1])
	}

	if meta.Prediction == "" && meta.Location == "" {
		return nil
	}
	return meta
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	val, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return val
}

// stripEncodingPrefix drops the character-code marker some writers prepend
// to EXIF comments.
func stripEncodingPrefix(s string) string {
	s = strings.ReplaceAll(s, "ASCII\x00\x00\x00", "")
	s = strings.ReplaceAll(s, "ASCII\x00", "")
	return strings.TrimSpace(s)
}
