package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dileep-u-k/quakebot/internal/tools"
)

const (
	NotConfiguredText = "🤖 AI (Gemini) 服務尚未設定 API 金鑰，或金鑰無效。"

	placeholderKey = "YOUR_GEMINI_API_KEY"
)

var errEmptyResponse = errors.New("model returned no text")

// KeyConfigured reports whether apiKey looks like a real key.
func KeyConfigured(apiKey string) bool {
	apiKey = strings.TrimSpace(apiKey)
	return apiKey != "" && !strings.Contains(apiKey, placeholderKey)
}

// Assistant answers free-form prompts, letting the model call at most one
// registered tool before it writes the final answer.
type Assistant struct {
	client LLMClient
	tools  *tools.ToolManager
	logger *slog.Logger
}

// NewAssistant returns an assistant. A nil client means the model is not
// configured and every prompt gets NotConfiguredText.
func NewAssistant(client LLMClient, tm *tools.ToolManager) *Assistant {
	if tm == nil {
		tm = tools.NewToolManager()
	}
	return &Assistant{
		client: client,
		tools:  tm,
		logger: slog.Default().With("component", "assistant"),
	}
}

// Generate returns the model's answer. Failures are reported as reply text.
func (a *Assistant) Generate(ctx context.Context, prompt string) string {
	if a.client == nil {
		return NotConfiguredText
	}

	a.logger.Info("starting chat", "prompt_len", len(prompt))
	chat := a.client.StartChat()

	res, err := chat.SendText(ctx, prompt)
	if err != nil {
		return a.failure(err)
	}
	if len(res.ToolCalls) == 0 {
		return a.text(res)
	}

	// Only the first requested call is served.
	call := res.ToolCalls[0].Function
	a.logger.Info("model requested tool", "tool", call.Name)

	result, err := a.tools.Execute(ctx, call.Name, call.Arguments)
	if errors.Is(err, tools.ErrUnknownTool) {
		return fmt.Sprintf("錯誤：模型嘗試呼叫一個不存在的工具 '%s'。", call.Name)
	}
	if err != nil {
		a.logger.Warn("tool failed", "tool", call.Name, "error", err)
		result = fmt.Sprintf("工具執行失敗，錯誤訊息: %v", err)
	}

	res, err = chat.SendToolResult(ctx, call.Name, result)
	if err != nil {
		return a.failure(err)
	}
	return a.text(res)
}

func (a *Assistant) text(res *GenerationResult) string {
	if res == nil || res.Content == "" {
		return a.failure(errEmptyResponse)
	}
	return res.Content
}

func (a *Assistant) failure(err error) string {
	a.logger.Error("model interaction failed", "error", err)
	return fmt.Sprintf("🤖 AI 服務發生錯誤: %v", err)
}
