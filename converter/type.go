package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrDecode            = errors.New("failed to decode image payload")
)

// Format is an output encoding. The zero value means "not chosen yet".
type Format struct {
	s string
}

var (
	PNG  = Format{"png"}
	WEBP = Format{"webp"}
	JPEG = Format{"jpeg"}
	GIF  = Format{"gif"}
	BMP  = Format{"bmp"}
	TIFF = Format{"tiff"}
	AVIF = Format{"avif"}
)

func (t Format) String() string {
	return t.s
}

func (t Format) IsZero() bool {
	return t.s == ""
}

func (t Format) MIME() string {
	return "image/" + t.s
}

// MakeFromString accepts format names and file extensions, with or without
// the leading dot, in any case.
func MakeFromString(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case PNG.s:
		return PNG, nil
	case WEBP.s:
		return WEBP, nil
	case JPEG.s, "jpg":
		return JPEG, nil
	case GIF.s:
		return GIF, nil
	case BMP.s:
		return BMP, nil
	case TIFF.s, "tif":
		return TIFF, nil
	case AVIF.s:
		return AVIF, nil
	}

	return Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FromPath derives the format from the file extension, defaulting to PNG.
func FromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return PNG, nil
	}
	return MakeFromString(ext)
}

func (t *Format) UnmarshalText(text []byte) error {
	parsed, err := MakeFromString(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
