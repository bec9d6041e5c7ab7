package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")
	unsetenv(t, "AZURE_OPENAI_ENDPOINT", "DEPLOYMENT_NAME", "OPENAI_API_VERSION", "IMAGE_REQUEST_TIMEOUT", "S3_PREFIX")

	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, "https://eas-2.openai.azure.com/", conf.Endpoint)
	assert.Equal(t, "gpt-image-1", conf.Deployment)
	assert.Equal(t, "2025-04-01-preview", conf.APIVersion)
	assert.Equal(t, "secret", conf.APIKey)
	assert.Equal(t, 180*time.Second, conf.RequestTimeout)
	assert.Equal(t, "images", conf.S3.Prefix)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("DEPLOYMENT_NAME", "image-deploy")
	t.Setenv("IMAGE_REQUEST_TIMEOUT", "30s")
	t.Setenv("CONTENT_ROOT", "/srv/site")

	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com/", conf.Endpoint)
	assert.Equal(t, "image-deploy", conf.Deployment)
	assert.Equal(t, 30*time.Second, conf.RequestTimeout)
	assert.Equal(t, "/srv/site", conf.ContentRoot)
}

func TestNewMissingAPIKey(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "")

	conf, err := New()
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, conf)
}

func TestS3Validate(t *testing.T) {
	assert.ErrorIs(t, S3{Bucket: "b"}.Validate(), ErrMissingS3)
	assert.NoError(t, S3{
		Bucket:    "b",
		AccessKey: "a",
		SecretKey: "s",
		Endpoint:  "https://s3.example.com",
	}.Validate())
}
