package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"heroimage/azure"
	"heroimage/config"
	"heroimage/converter"
	"heroimage/service"
)

func TestServerGenerateThenShow(t *testing.T) {
	calls := fakeAPI(t, okAPI(t))
	t.Setenv("CONTENT_ROOT", t.TempDir())

	cfg, err := config.New()
	require.NoError(t, err)
	a := &application{cfg: cfg, logger: zap.NewNop()}

	svc := service.NewImageService(azure.New(cfg, a.logger), converter.MustStrategy(a.logger), nil, a.logger)
	app := newServer(a, svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/images/guides/rescue", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/images/guides/rescue", strings.NewReader(`{"prompt":"a drooping fern","quality":"medium"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 1, calls.Load())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/images/guides/rescue", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(body[:4]))
}
