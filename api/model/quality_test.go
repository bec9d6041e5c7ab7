package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderQuality(t *testing.T) {
	tests := []struct {
		in   string
		want float32
	}{
		{"low", 70},
		{"medium", 85},
		{"high", 95},
		{"auto", 95},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := QualityFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.EncoderQuality())
		})
	}
}

func TestQualityFromStringUnknown(t *testing.T) {
	for _, in := range []string{"standard", "HIGH", "Low", ""} {
		_, err := QualityFromString(in)
		assert.Error(t, err, in)
	}
}

func TestQualityFlagValue(t *testing.T) {
	q := QualityHigh
	require.NoError(t, q.Set("medium"))
	assert.Equal(t, QualityMedium, q)
	assert.Error(t, q.Set("ultra"))
	assert.Equal(t, QualityMedium, q)
}

func TestGenerateBodyJSON(t *testing.T) {
	var body GenerateBody
	require.NoError(t, json.Unmarshal([]byte(`{"prompt":"fern","quality":"low"}`), &body))
	assert.Equal(t, "fern", body.Prompt)
	assert.Equal(t, QualityLow, body.Quality)

	assert.Error(t, json.Unmarshal([]byte(`{"prompt":"fern","quality":"best"}`), &body))
}
