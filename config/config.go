package config

import (
	"errors"
	"fmt"
	"github.com/caarlos0/env/v8"
	"time"
)

var (
	ErrMissingAPIKey = errors.New("AZURE_OPENAI_API_KEY environment variable is required")
	ErrMissingS3     = errors.New("S3 upload requires S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY and S3_ENDPOINT")
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"heroimage"`
	Port    string `env:"PORT" envDefault:"8080"`

	Endpoint       string        `env:"AZURE_OPENAI_ENDPOINT" envDefault:"https://eas-2.openai.azure.com/"`
	Deployment     string        `env:"DEPLOYMENT_NAME" envDefault:"gpt-image-1"`
	APIVersion     string        `env:"OPENAI_API_VERSION" envDefault:"2025-04-01-preview"`
	APIKey         string        `env:"AZURE_OPENAI_API_KEY"`
	RequestTimeout time.Duration `env:"IMAGE_REQUEST_TIMEOUT" envDefault:"180s"`

	// ContentRoot is the directory holding public/images/webp.
	ContentRoot string `env:"CONTENT_ROOT"`

	TraceStdout  bool   `env:"TRACE_STDOUT" envDefault:"false"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	S3 S3
}

type S3 struct {
	Region    string `env:"S3_REGION"`
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Endpoint  string `env:"S3_ENDPOINT"`
	Prefix    string `env:"S3_PREFIX" envDefault:"images"`
}

// New reads the configuration from the environment. The API key is checked
// here so a missing key fails before anything touches the network.
func New() (*Config, error) {
	conf := &Config{}

	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if conf.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return conf, nil
}

func (s S3) Validate() error {
	if s.Bucket == "" || s.AccessKey == "" || s.SecretKey == "" || s.Endpoint == "" {
		return ErrMissingS3
	}
	return nil
}
