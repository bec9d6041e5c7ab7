package converter

import (
	"bytes"
	"context"
	"go.uber.org/zap"
	"heroimage/shared/log"
	"image"
	"image/color"
	"image/jpeg"
	"io"
)

type Jpeg struct {
	logger *zap.Logger
}

func mustJpeg(logger *zap.Logger) *Jpeg {
	return &Jpeg{logger: logger}
}

// Encode flattens transparent images onto white first; JPEG has no alpha.
func (w *Jpeg) Encode(ctx context.Context, img image.Image, quality float32) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Converting image to jpeg", zap.Float32("quality", quality))

	img = Flatten(color.White)(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: int(quality)}); err != nil {
		logger.Error("Error converting image to jpeg", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
