package service

import (
	"context"
	"fmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"heroimage/api/model"
	"heroimage/azure"
	"heroimage/converter"
	"heroimage/shared/log"
	"io"
	"os"
	"path/filepath"
)

type Generator interface {
	GenerateImage(ctx context.Context, req model.GenerationRequest) (*azure.ImageResponse, error)
}

type Publisher interface {
	Publish(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type GenerateParams struct {
	Request model.GenerationRequest
	Output  string
	// Format overrides the format derived from Output's extension.
	Format converter.Format
	Width  int
	// Key is the object key used when a publisher is configured; empty skips the upload.
	Key string
}

type Result struct {
	Path     string
	Format   converter.Format
	Bytes    int64
	Location string
}

type ImageService struct {
	generator Generator
	strategy  *converter.Strategy
	publisher Publisher
	logger    *zap.Logger
}

// NewImageService wires the pipeline; publisher may be nil.
func NewImageService(generator Generator, strategy *converter.Strategy, publisher Publisher, logger *zap.Logger) *ImageService {
	return &ImageService{generator: generator, strategy: strategy, publisher: publisher, logger: logger}
}

// Generate requests one image, converts it and writes it to params.Output.
// The output format is resolved before the API call and the file is only
// written once encoding has succeeded.
func (i *ImageService) Generate(ctx context.Context, params GenerateParams) (*Result, error) {
	ctx, span := otel.Tracer("heroimage/service").Start(ctx, "service.Generate")
	defer span.End()

	result, err := i.generate(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("path", result.Path), attribute.Int64("bytes", result.Bytes))
	return result, nil
}

func (i *ImageService) generate(ctx context.Context, params GenerateParams) (*Result, error) {
	logger := log.LoggerWithTrace(ctx, i.logger)

	format := params.Format
	if format.IsZero() {
		var err error
		if format, err = converter.FromPath(params.Output); err != nil {
			return nil, err
		}
	}

	encoder, err := i.strategy.Apply(format)
	if err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Generating image with prompt: '%s'", params.Request.Prompt))
	logger.Info(fmt.Sprintf("Size: %s, Quality: %s", params.Request.Size, params.Request.Quality))

	resp, err := i.generator.GenerateImage(ctx, params.Request)
	if err != nil {
		return nil, fmt.Errorf("error making API request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, azure.ErrNoImageData
	}

	img, err := converter.DecodeBase64(resp.Data[0].B64JSON)
	if err != nil {
		return nil, err
	}

	img = converter.Apply(img, converter.WithWidth(params.Width))

	encodeCtx, encodeSpan := otel.Tracer("heroimage/service").Start(ctx, "converter.Encode")
	encodeSpan.SetAttributes(attribute.String("format", format.String()))
	reader, size, err := encoder.Encode(encodeCtx, img, params.Request.Quality.EncoderQuality())
	encodeSpan.End()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := writeFile(params.Output, data); err != nil {
		logger.Error("Error saving image", zap.String("path", params.Output), zap.Error(err))
		return nil, err
	}

	result := &Result{Path: params.Output, Format: format, Bytes: size}
	logger.Info(fmt.Sprintf("Image saved to: '%s'", params.Output))

	if i.publisher != nil && params.Key != "" {
		location, err := i.publisher.Publish(ctx, params.Key, format.MIME(), data)
		if err != nil {
			return nil, err
		}
		result.Location = location
	}

	return result, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
