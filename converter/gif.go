package converter

import (
	"bytes"
	"context"
	"go.uber.org/zap"
	"heroimage/shared/log"
	"image"
	"image/gif"
	"io"
)

type Gif struct {
	logger *zap.Logger
}

func mustGif(logger *zap.Logger) *Gif {
	return &Gif{logger: logger}
}

func (w *Gif) Encode(ctx context.Context, img image.Image, _ float32) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Converting image to gif")

	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		logger.Error("Error converting image to gif", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
