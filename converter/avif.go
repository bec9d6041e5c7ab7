package converter

import (
	"bytes"
	"context"
	"github.com/h2non/bimg"
	"go.uber.org/zap"
	"heroimage/shared/log"
	"image"
	"image/png"
	"io"
)

// Avif goes through libvips, which wants encoded bytes rather than pixels, so
// the image is handed over as PNG.
type Avif struct {
	logger *zap.Logger
}

func mustAvif(logger *zap.Logger) *Avif {
	return &Avif{logger: logger}
}

func (w *Avif) Encode(ctx context.Context, img image.Image, quality float32) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Converting image to avif", zap.Float32("quality", quality))

	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		logger.Error("Error preparing image for avif", zap.Error(err))
		return nil, 0, err
	}

	buf, err := bimg.NewImage(src.Bytes()).Process(bimg.Options{Type: bimg.AVIF, Quality: int(quality)})
	if err != nil {
		logger.Error("Error converting image to avif", zap.Error(err))
		return nil, 0, err
	}

	return bytes.NewBuffer(buf), int64(len(buf)), nil
}
