// Package azure talks to the Azure OpenAI image generation endpoint.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"heroimage/api/model"
	"heroimage/config"
	"heroimage/shared/log"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const outputFormat = "png"

type Client struct {
	endpoint   string
	deployment string
	apiVersion string
	apiKey     string

	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, whose timeout comes from the config.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerationURL is {endpoint}openai/deployments/{deployment}/images/generations?api-version={version}.
func (c *Client) GenerationURL() string {
	endpoint := c.endpoint
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	return endpoint + "openai/deployments/" + url.PathEscape(c.deployment) +
		"/images/generations?api-version=" + url.QueryEscape(c.apiVersion)
}

// GenerateImage makes exactly one request; there are no retries. A response
// without image data is reported as ErrNoImageData.
func (c *Client) GenerateImage(ctx context.Context, req model.GenerationRequest) (*ImageResponse, error) {
	ctx, span := otel.Tracer("heroimage/azure").Start(ctx, "azure.GenerateImage")
	defer span.End()
	span.SetAttributes(
		attribute.String("deployment", c.deployment),
		attribute.String("size", req.Size),
		attribute.String("quality", req.Quality.String()),
	)

	logger := log.LoggerWithTrace(ctx, c.logger)

	resp, err := c.generate(ctx, req, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (c *Client) generate(ctx context.Context, req model.GenerationRequest, logger *zap.Logger) (*ImageResponse, error) {
	body, err := json.Marshal(imageRequest{
		Prompt:       req.Prompt,
		N:            1,
		Size:         req.Size,
		Quality:      req.Quality.String(),
		OutputFormat: outputFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GenerationURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Api-Key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug("Requesting image", zap.String("deployment", c.deployment), zap.String("api_version", c.apiVersion))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		logger.Error("Image API request failed", zap.Int("status", apiErr.Status), zap.String("code", apiErr.Code))
		return nil, apiErr
	}

	var imageResp ImageResponse
	if err := json.Unmarshal(respBody, &imageResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(imageResp.Data) == 0 || imageResp.Data[0].B64JSON == "" {
		return nil, ErrNoImageData
	}

	if revised := imageResp.Data[0].RevisedPrompt; revised != "" {
		logger.Debug("Prompt revised by the API", zap.String("revised_prompt", revised))
	}

	return &imageResp, nil
}
