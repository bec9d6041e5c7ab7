package log

import (
	"context"
	"github.com/hyperdxio/opentelemetry-go/otelzap"
	"github.com/hyperdxio/opentelemetry-logs-go/exporters/otlp/otlplogs"
	sdk "github.com/hyperdxio/opentelemetry-logs-go/sdk/logs"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

type Options struct {
	Verbose bool
	// OTLP tees every record to the OTLP log exporter configured through the
	// standard OTEL_EXPORTER_OTLP_* variables.
	OTLP bool
	// Output defaults to stderr.
	Output zapcore.WriteSyncer
}

// InitLogger builds the console logger. The returned shutdown flushes the
// OTLP exporter when one is attached.
func InitLogger(ctx context.Context, opts Options) (*zap.Logger, func(context.Context) error) {
	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	output := opts.Output
	if output == nil {
		output = zapcore.Lock(os.Stderr)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), output, level)

	if !opts.OTLP {
		return zap.New(consoleCore), func(context.Context) error { return nil }
	}

	logExporter, err := otlplogs.NewExporter(ctx)
	if err != nil {
		logger := zap.New(consoleCore)
		logger.Warn("OTLP log export disabled", zap.Error(err))
		return logger, func(context.Context) error { return nil }
	}

	loggerProvider := sdk.NewLoggerProvider(
		sdk.WithBatcher(logExporter),
	)

	core := zapcore.NewTee(
		otelzap.NewOtelCore(loggerProvider),
		consoleCore,
	)
	return zap.New(core), loggerProvider.Shutdown
}

func LoggerWithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	)
}
