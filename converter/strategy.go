package converter

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"image"
	"io"
)

type Encoder interface {
	Encode(ctx context.Context, img image.Image, quality float32) (io.Reader, int64, error)
}

type Strategy struct {
	m map[Format]Encoder
}

func MustStrategy(logger *zap.Logger) *Strategy {
	m := map[Format]Encoder{
		PNG:  mustPng(logger),
		WEBP: mustWebp(logger),
		JPEG: mustJpeg(logger),
		GIF:  mustGif(logger),
		BMP:  mustBmp(logger),
		TIFF: mustTiff(logger),
		AVIF: mustAvif(logger),
	}

	return &Strategy{m: m}
}

func (s *Strategy) Apply(t Format) (Encoder, error) {
	encoder, ok := s.m[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, t.String())
	}
	return encoder, nil
}
