package azure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"heroimage/api/model"
	"heroimage/config"
)

func newTestClient(serverURL string) *Client {
	return New(&config.Config{
		Endpoint:       serverURL + "/",
		Deployment:     "gpt-image-1",
		APIVersion:     "2025-04-01-preview",
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
}

var testRequest = model.GenerationRequest{
	Prompt:  "A watercolor monstera leaf",
	Size:    "1536x1024",
	Quality: model.QualityHigh,
}

func TestGenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/openai/deployments/gpt-image-1/images/generations", r.URL.Path)
		assert.Equal(t, "2025-04-01-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{
			"prompt": "A watercolor monstera leaf",
			"n": 1,
			"size": "1536x1024",
			"quality": "high",
			"output_format": "png"
		}`, string(raw))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ImageResponse{
			Created: 1760335349,
			Data:    []ImageData{{B64JSON: "aGVsbG8="}, {B64JSON: "c2Vjb25k"}},
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GenerateImage(context.Background(), testRequest)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "aGVsbG8=", resp.Data[0].B64JSON)
}

func TestGenerationURL(t *testing.T) {
	c := New(&config.Config{
		Endpoint:   "https://example.openai.azure.com",
		Deployment: "gpt-image-1",
		APIVersion: "2025-04-01-preview",
	}, zap.NewNop())

	assert.Equal(t,
		"https://example.openai.azure.com/openai/deployments/gpt-image-1/images/generations?api-version=2025-04-01-preview",
		c.GenerationURL())
}

func TestGenerateImageJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"content_policy_violation","message":"Your request was rejected","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateImage(context.Background(), testRequest)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "content_policy_violation", apiErr.Code)
	assert.Equal(t, "Your request was rejected", apiErr.Message)
	assert.NotNil(t, apiErr.Details)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGenerateImageRawTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateImage(context.Background(), testRequest)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Nil(t, apiErr.Details)
	assert.Equal(t, "upstream unavailable", apiErr.Body)
	assert.ErrorIs(t, err, ErrServer)
}

func TestGenerateImageStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusNotFound, ErrBadRequest},
		{http.StatusInternalServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GenerateImage(context.Background(), testRequest)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateImageNoData(t *testing.T) {
	for name, body := range map[string]string{
		"missing": `{"created": 1}`,
		"empty":   `{"created": 1, "data": []}`,
		"blank":   `{"created": 1, "data": [{"b64_json": ""}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GenerateImage(context.Background(), testRequest)
			assert.ErrorIs(t, err, ErrNoImageData)
		})
	}
}

func TestGenerateImageDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateImage(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestGenerateImageNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).GenerateImage(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestGenerateImageTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond})(c)

	_, err := c.GenerateImage(context.Background(), testRequest)
	assert.ErrorIs(t, err, ErrNetwork)
}
