package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with release mode on, so no
// .env or config.yaml from the working tree is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("GIN_MODE", "release")
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "LOG_LEVEL", "GEMINI_MODEL", "MCP_SERVER_URL",
		"CWA_ALARM_API", "CWA_SIGNIFICANT_API", "USGS_API_BASE_URL",
		"REDIS_ADDR", "DEDUP_TTL", "RATE_LIMIT_RPS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Release)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, "https://cwadayi-mcp-2.hf.space", cfg.MCPServerURL)
	assert.Equal(t, 10*time.Minute, cfg.DedupTTL)
	assert.Equal(t, 10, cfg.RateLimitRPS)
	assert.Equal(t, 20*time.Second, cfg.Timeouts.Max())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := isolate(t)

	yamlBody := `
server:
  port: 9000
  log_level: debug
providers:
  usgs_api_base_url: https://usgs.example.com/query
  mcp_server_url: https://mcp.example.com
timeouts:
  gradio: 45s
dedup:
  ttl: 30m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlBody), 0o600))
	t.Setenv("PORT", "9100")
	t.Setenv("MCP_SERVER_URL", "https://override.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://usgs.example.com/query", cfg.USGSAPIBaseURL)
	assert.Equal(t, "https://override.example.com", cfg.MCPServerURL)
	assert.Equal(t, 45*time.Second, cfg.Timeouts.Gradio)
	assert.Equal(t, 45*time.Second, cfg.Timeouts.Max())
	assert.Equal(t, 30*time.Minute, cfg.DedupTTL)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bad ttl", map[string]string{"DEDUP_TTL": "ten minutes"}},
		{"zero rps", map[string]string{"RATE_LIMIT_RPS": "0"}},
		{"relative url", map[string]string{"USGS_API_BASE_URL": "/query"}},
		{"missing explicit file", map[string]string{"CONFIG_FILE": "missing.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
