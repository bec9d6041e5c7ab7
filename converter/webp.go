package converter

import (
	"bytes"
	"context"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"go.uber.org/zap"
	"heroimage/shared/log"
	"image"
	"io"
)

// webpMethod is the libwebp compression effort, 0 (fast) to 6 (smallest).
const webpMethod = 6

type Webp struct {
	logger *zap.Logger
}

func mustWebp(logger *zap.Logger) *Webp {
	return &Webp{logger: logger}
}

func (w *Webp) Encode(ctx context.Context, img image.Image, quality float32) (io.Reader, int64, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Converting image to webp", zap.Float32("quality", quality), zap.Int("method", webpMethod))

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		logger.Error("Error creating webp options", zap.Error(err))
		return nil, 0, err
	}
	options.Method = webpMethod

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		logger.Error("Error converting image to webp", zap.Error(err))
		return nil, 0, err
	}

	return &buf, int64(buf.Len()), nil
}
