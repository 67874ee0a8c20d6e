package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	var cfg Config
	err := Decode(map[string]any{
		"server_port":          "8081",
		"cors_allow_origins":   "https://a.example,https://b.example",
		"media_sweep_min_age":  "48h",
		"minio_use_ssl":        "true",
		"upload_url_prefix":    "/uploads/",
		"api_prefix":           "/api",
		"rate_limit_api_burst": 10,
	}, &cfg)
	require.NoError(t, err)
	cfg.normalize()

	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 48*time.Hour, cfg.MediaSweepMinAge)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, "uploads", cfg.UploadURLPrefix)
	assert.Equal(t, "api", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.RateLimitApiBurst)
}

func TestAddr(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())

	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 9000
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "http://127.0.0.1:9000", cfg.BaseURL())

	cfg.ServerDomain = "https://cms.example.com/"
	assert.Equal(t, "https://cms.example.com", cfg.BaseURL())
}
