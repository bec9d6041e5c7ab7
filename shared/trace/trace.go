package trace

import (
	"context"
	"fmt"
	"github.com/hyperdxio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"heroimage/config"
	"io"
)

// InitTrace installs the global tracer provider. With an OTLP endpoint the
// provider comes from otelconfig; otherwise an SDK provider is used, printing
// spans to w when TRACE_STDOUT is set.
func InitTrace(cfg *config.Config, w io.Writer) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint != "" {
		otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
		if err != nil {
			return nil, fmt.Errorf("failed to configure OpenTelemetry: %w", err)
		}
		return func(context.Context) error {
			otelShutdown()
			return nil
		}, nil
	}

	var opts []sdktrace.TracerProviderOption
	if cfg.TraceStdout {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
