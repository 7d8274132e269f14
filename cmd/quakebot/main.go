package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/quakebot/internal/command"
	"github.com/dileep-u-k/quakebot/internal/cwa"
	"github.com/dileep-u-k/quakebot/internal/dedup"
	"github.com/dileep-u-k/quakebot/internal/gradio"
	"github.com/dileep-u-k/quakebot/internal/httpc"
	"github.com/dileep-u-k/quakebot/internal/llm"
	"github.com/dileep-u-k/quakebot/internal/logging"
	"github.com/dileep-u-k/quakebot/internal/tools"
	"github.com/dileep-u-k/quakebot/internal/usgs"

	"github.com/gin-gonic/gin"
)

// main is the composition root: it loads configuration, builds every
// service, injects dependencies and runs the webhook server.
func main() {
	cfg, err := LoadConfig()
	if err != nil {
		logging.Fatalf("configuration error: %v", err)
	}
	logging.Setup(cfg.LogLevel, cfg.Release)

	buildInfo := GetBuildInfo()
	slog.Info("starting quakebot",
		"version", buildInfo.Version,
		"commit", buildInfo.GitCommit,
		"built", buildInfo.BuildDate,
		"go", buildInfo.GoVersion,
		"platform", buildInfo.Platform,
	)

	ctx := context.Background()
	httpClient := httpc.NewClient(cfg.Timeouts.Max())

	cwaClient := cwa.NewClient(cwa.Config{
		APIKey:             cfg.CWAAPIKey,
		AlarmURL:           cfg.CWAAlarmAPI,
		SignificantURL:     cfg.CWASignificantAPI,
		AlarmTimeout:       cfg.Timeouts.CWAAlarm,
		SignificantTimeout: cfg.Timeouts.CWASignificant,
	}, httpClient)
	if !cwaClient.HasAPIKey() {
		slog.Warn("CWA_API_KEY is not set; significant earthquake commands are disabled")
	}

	usgsClient := usgs.NewClient(usgs.Config{
		BaseURL:       cfg.USGSAPIBaseURL,
		GlobalTimeout: cfg.Timeouts.USGSGlobal,
		TaiwanTimeout: cfg.Timeouts.USGSTaiwan,
	}, httpClient)

	toolManager, err := initializeToolManager(cfg, httpClient)
	if err != nil {
		logging.Fatalf("%v", err)
	}

	assistant, closeLLM := initializeAssistant(ctx, cfg, toolManager)
	defer closeLLM()

	router := command.NewRouter(cwaClient, usgsClient, assistant, cfg.MCPServerURL)

	deduper := initializeDeduper(ctx, cfg)
	defer deduper.Close()

	if cfg.ChannelAccessToken == "" || cfg.ChannelSecret == "" {
		slog.Warn("LINE channel credentials are not set; webhook deliveries will be rejected")
	}
	replier, err := NewLineReplier(cfg.ChannelAccessToken)
	if err != nil {
		logging.Fatalf("%v", err)
	}

	handler := NewWebhookHandler(cfg.ChannelSecret, router, replier, deduper)
	slog.Info("all services initialized")

	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := newEngine(handler, cfg.RateLimitRPS, buildInfo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	runServerWithGracefulShutdown(srv)
}

// initializeToolManager registers the tools offered to the model.
func initializeToolManager(cfg *AppConfig, httpClient *http.Client) (*tools.ToolManager, error) {
	manager := tools.NewToolManager()

	remote := gradio.NewClient(gradio.Config{
		BaseURL: cfg.MCPServerURL,
		Timeout: cfg.Timeouts.Gradio,
	}, httpClient)
	if err := manager.Register(tools.NewEarthquakeSearchTool(remote)); err != nil {
		return nil, fmt.Errorf("failed to register earthquake search tool: %w", err)
	}

	slog.Info("tool manager initialized", "tools", manager.ToolCount())
	return manager, nil
}

// initializeAssistant builds the Gemini-backed assistant. Without a usable
// key, or when the client cannot be created, the assistant replies with the
// not-configured text.
func initializeAssistant(ctx context.Context, cfg *AppConfig, toolManager *tools.ToolManager) (*llm.Assistant, func()) {
	noop := func() {}
	if !llm.KeyConfigured(cfg.GeminiAPIKey) {
		slog.Warn("GEMINI_API_KEY is not set; AI replies are disabled")
		return llm.NewAssistant(nil, toolManager), noop
	}

	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, toolManager.GetDefinitions())
	if err != nil {
		slog.Error("failed to create Gemini client; AI replies are disabled", "error", err)
		return llm.NewAssistant(nil, toolManager), noop
	}
	slog.Info("Gemini client initialized", "model", cfg.GeminiModel)

	return llm.NewAssistant(client, toolManager), func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close Gemini client", "error", err)
		}
	}
}

// initializeDeduper prefers Redis when REDIS_ADDR is set and falls back to
// process memory.
func initializeDeduper(ctx context.Context, cfg *AppConfig) dedup.Deduper {
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		store, err := dedup.NewRedisStore(pingCtx, cfg.RedisAddr, cfg.DedupTTL)
		if err == nil {
			slog.Info("webhook dedup backed by Redis", "addr", cfg.RedisAddr)
			return store
		}
		slog.Warn("falling back to in-memory webhook dedup", "error", err)
	}
	return dedup.NewMemoryStore(cfg.DedupTTL)
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		return
	}

	slog.Info("server exited gracefully")
}
