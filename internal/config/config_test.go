package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"BOOKDEN_API_URL", "BOOKDEN_REQUEST_TIMEOUT", "BOOKDEN_SEARCH_RATE",
		"BOOKDEN_SEARCH_BURST", "BOOKDEN_LOG_LEVEL", "BOOKDEN_LOG_FORMAT",
		"BOOKDEN_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2.0, cfg.SearchRate)
	assert.Equal(t, 4, cfg.SearchBurst)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOOKDEN_API_URL", "https://books.example.com/api")
	t.Setenv("BOOKDEN_REQUEST_TIMEOUT", "3s")
	t.Setenv("BOOKDEN_SEARCH_RATE", "0.5")
	t.Setenv("BOOKDEN_SEARCH_BURST", "1")
	t.Setenv("BOOKDEN_LOG_LEVEL", "debug")
	t.Setenv("BOOKDEN_METRICS_ADDR", ":9102")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://books.example.com/api", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.5, cfg.SearchRate)
	assert.Equal(t, 1, cfg.SearchBurst)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"BOOKDEN_REQUEST_TIMEOUT": "soon",
		"BOOKDEN_SEARCH_RATE":     "fast",
		"BOOKDEN_SEARCH_BURST":    "many",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
