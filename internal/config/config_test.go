package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/v1/")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, cfg.APIBaseURL, cfg.MediaBaseURL())
	assert.Equal(t, time.Minute, cfg.CacheStaleTime)
	assert.True(t, cfg.LogPretty)
	assert.False(t, cfg.BucketEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("UPLOAD_BASE_URL", "https://files.example.com/")
	t.Setenv("CACHE_STALE_TIME", "30s")
	t.Setenv("API_RETRY_COUNT", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com", cfg.MediaBaseURL())
	assert.Equal(t, 30*time.Second, cfg.CacheStaleTime)
	assert.Equal(t, 1, cfg.APIRetryCount)
	assert.True(t, cfg.CookieSecure)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:            "8080",
		Env:             "development",
		SiteName:        "News",
		DefaultLanguage: "bn",
		APIBaseURL:      "https://api.example.com",
		CacheStaleTime:  time.Minute,
		CacheTTL:        time.Hour,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.APIBaseURL = "not a url"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.CacheTTL = time.Second
	assert.Error(t, bad.Validate())

	bad = valid
	bad.R2Endpoint = "https://acc.r2.cloudflarestorage.com"
	assert.Error(t, bad.Validate(), "bucket credentials are required with an endpoint")

	bad = valid
	bad.Env = "production"
	assert.Error(t, bad.Validate(), "production needs a cookie secret")
}
