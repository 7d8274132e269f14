package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/dileep-u-k/quakebot/internal/cwa"
	"github.com/dileep-u-k/quakebot/internal/dedup"
	"github.com/dileep-u-k/quakebot/internal/gradio"
	"github.com/dileep-u-k/quakebot/internal/llm"
	"github.com/dileep-u-k/quakebot/internal/usgs"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile   = "config.yaml"
	defaultMCPServerURL = "https://cwadayi-mcp-2.hf.space"
)

// AppConfig holds all configuration for the bot, loaded from a .env file,
// an optional config.yaml and environment variables.
type AppConfig struct {
	Port     int
	LogLevel string
	Release  bool

	ChannelAccessToken string
	ChannelSecret      string
	CWAAPIKey          string
	GeminiAPIKey       string
	GeminiModel        string

	MCPServerURL      string
	CWAAlarmAPI       string
	CWASignificantAPI string
	USGSAPIBaseURL    string

	RedisAddr    string
	DedupTTL     time.Duration
	RateLimitRPS int

	Timeouts TimeoutConfig
}

type TimeoutConfig struct {
	CWAAlarm       time.Duration `yaml:"cwa_alarm"`
	CWASignificant time.Duration `yaml:"cwa_significant"`
	USGSGlobal     time.Duration `yaml:"usgs_global"`
	USGSTaiwan     time.Duration `yaml:"usgs_taiwan"`
	Gradio         time.Duration `yaml:"gradio"`
}

// Max is the longest outbound timeout; the shared HTTP client must allow it.
func (t TimeoutConfig) Max() time.Duration {
	return max(t.CWAAlarm, t.CWASignificant, t.USGSGlobal, t.USGSTaiwan, t.Gradio)
}

// fileConfig is the layout of config.yaml. Empty values keep the defaults.
type fileConfig struct {
	Server struct {
		Port         int    `yaml:"port"`
		LogLevel     string `yaml:"log_level"`
		RateLimitRPS int    `yaml:"rate_limit_rps"`
	} `yaml:"server"`
	Providers struct {
		CWAAlarmAPI       string `yaml:"cwa_alarm_api"`
		CWASignificantAPI string `yaml:"cwa_significant_api"`
		USGSAPIBaseURL    string `yaml:"usgs_api_base_url"`
		MCPServerURL      string `yaml:"mcp_server_url"`
		GeminiModel       string `yaml:"gemini_model"`
	} `yaml:"providers"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Dedup    struct {
		RedisAddr string        `yaml:"redis_addr"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"dedup"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Port:              8080,
		LogLevel:          "info",
		GeminiModel:       llm.DefaultModel,
		MCPServerURL:      defaultMCPServerURL,
		CWAAlarmAPI:       cwa.DefaultAlarmURL,
		CWASignificantAPI: cwa.DefaultSignificantURL,
		USGSAPIBaseURL:    usgs.DefaultBaseURL,
		DedupTTL:          dedup.DefaultTTL,
		RateLimitRPS:      10,
		Timeouts: TimeoutConfig{
			CWAAlarm:       cwa.DefaultAlarmTimeout,
			CWASignificant: cwa.DefaultSignificantTimeout,
			USGSGlobal:     usgs.DefaultGlobalTimeout,
			USGSTaiwan:     usgs.DefaultTaiwanTimeout,
			Gradio:         gradio.DefaultTimeout,
		},
	}
}

// LoadConfig builds the configuration: built-in defaults, then config.yaml,
// then environment variables.
func LoadConfig() (*AppConfig, error) {
	// In release mode configuration comes from the environment only.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file found for local development")
		}
	}

	cfg := defaultConfig()

	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit || path == "" {
		path = defaultConfigFile
	}
	if err := cfg.applyFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setInt(&c.Port, fc.Server.Port)
	setString(&c.LogLevel, fc.Server.LogLevel)
	setInt(&c.RateLimitRPS, fc.Server.RateLimitRPS)
	setString(&c.CWAAlarmAPI, fc.Providers.CWAAlarmAPI)
	setString(&c.CWASignificantAPI, fc.Providers.CWASignificantAPI)
	setString(&c.USGSAPIBaseURL, fc.Providers.USGSAPIBaseURL)
	setString(&c.MCPServerURL, fc.Providers.MCPServerURL)
	setString(&c.GeminiModel, fc.Providers.GeminiModel)
	setString(&c.RedisAddr, fc.Dedup.RedisAddr)
	setDuration(&c.DedupTTL, fc.Dedup.TTL)
	setDuration(&c.Timeouts.CWAAlarm, fc.Timeouts.CWAAlarm)
	setDuration(&c.Timeouts.CWASignificant, fc.Timeouts.CWASignificant)
	setDuration(&c.Timeouts.USGSGlobal, fc.Timeouts.USGSGlobal)
	setDuration(&c.Timeouts.USGSTaiwan, fc.Timeouts.USGSTaiwan)
	setDuration(&c.Timeouts.Gradio, fc.Timeouts.Gradio)
	return nil
}

func (c *AppConfig) applyEnv() error {
	c.Release = os.Getenv("GIN_MODE") == "release"

	c.ChannelAccessToken = os.Getenv("CHANNEL_ACCESS_TOKEN")
	c.ChannelSecret = os.Getenv("CHANNEL_SECRET")
	c.CWAAPIKey = os.Getenv("CWA_API_KEY")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.GeminiModel, os.Getenv("GEMINI_MODEL"))
	setString(&c.MCPServerURL, os.Getenv("MCP_SERVER_URL"))
	setString(&c.CWAAlarmAPI, os.Getenv("CWA_ALARM_API"))
	setString(&c.CWASignificantAPI, os.Getenv("CWA_SIGNIFICANT_API"))
	setString(&c.USGSAPIBaseURL, os.Getenv("USGS_API_BASE_URL"))
	setString(&c.RedisAddr, os.Getenv("REDIS_ADDR"))

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
		c.RateLimitRPS = rps
	}
	if v := os.Getenv("DEDUP_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DEDUP_TTL %q: %w", v, err)
		}
		c.DedupTTL = ttl
	}
	return nil
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.RateLimitRPS < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS must be at least 1, got %d", c.RateLimitRPS)
	}
	if c.DedupTTL <= 0 {
		return fmt.Errorf("DEDUP_TTL must be positive, got %s", c.DedupTTL)
	}

	for name, raw := range map[string]string{
		"MCP_SERVER_URL":      c.MCPServerURL,
		"CWA_ALARM_API":       c.CWAAlarmAPI,
		"CWA_SIGNIFICANT_API": c.CWASignificantAPI,
		"USGS_API_BASE_URL":   c.USGSAPIBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not an absolute URL: %q", name, raw)
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
