package main

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dileep-u-k/quakebot/internal/command"
	"github.com/dileep-u-k/quakebot/internal/dedup"
	"github.com/dileep-u-k/quakebot/internal/reply"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"golang.org/x/time/rate"
)

// MessageRouter turns one chat message into reply messages.
type MessageRouter interface {
	Handle(ctx context.Context, req command.Request) []reply.Message
}

// Replier sends reply messages for a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, msgs []reply.Message) error
}

type WebhookHandler struct {
	channelSecret string
	router        MessageRouter
	replier       Replier
	dedup         dedup.Deduper
	logger        *slog.Logger
}

// NewWebhookHandler builds the LINE webhook handler. deduper may be nil.
func NewWebhookHandler(channelSecret string, router MessageRouter, replier Replier, deduper dedup.Deduper) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		router:        router,
		replier:       replier,
		dedup:         deduper,
		logger:        slog.Default().With("component", "webhook"),
	}
}

// HandleCallback verifies the signature, answers every text message event
// and acknowledges the delivery.
func (h *WebhookHandler) HandleCallback(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("rejected webhook with invalid signature")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		h.logger.Error("failed to parse webhook", "error", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	baseURL := requestBaseURL(c.Request)
	for _, event := range cb.Events {
		h.handleEvent(c.Request.Context(), baseURL, event)
	}
	c.String(http.StatusOK, "OK")
}

func (h *WebhookHandler) handleEvent(ctx context.Context, baseURL string, event webhook.EventInterface) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return
	}
	text, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}

	requestID := uuid.NewString()
	logger := h.logger.With("request_id", requestID, "webhook_event_id", e.WebhookEventId)

	if !h.firstDelivery(ctx, logger, e) {
		logger.Info("skipping already handled webhook event")
		return
	}

	msgs := h.router.Handle(ctx, command.Request{RawText: text.Text, BaseURL: baseURL, RequestID: requestID})
	if err := h.replier.Reply(ctx, e.ReplyToken, msgs); err != nil {
		logger.Error("failed to send reply", "error", err)
		h.release(ctx, logger, e)
		return
	}
	logger.Info("reply sent", "messages", len(msgs))
}

// firstDelivery reports whether the event should be answered. Store errors
// let the event through.
func (h *WebhookHandler) firstDelivery(ctx context.Context, logger *slog.Logger, e webhook.MessageEvent) bool {
	if h.dedup == nil || e.WebhookEventId == "" {
		return true
	}
	first, err := h.dedup.FirstSeen(ctx, e.WebhookEventId)
	if err != nil {
		logger.Warn("dedup store unavailable", "error", err)
		return true
	}
	return first
}

// release forgets an event whose reply failed so that a LINE redelivery is
// answered.
func (h *WebhookHandler) release(ctx context.Context, logger *slog.Logger, e webhook.MessageEvent) {
	if h.dedup == nil || e.WebhookEventId == "" {
		return
	}
	if err := h.dedup.Forget(ctx, e.WebhookEventId); err != nil {
		logger.Warn("failed to release webhook event", "error", err)
	}
}

// requestBaseURL is the scheme and host the request arrived on, honouring a
// TLS-terminating proxy.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// statusHandler renders the status page once; the build info does not change.
func statusHandler(info BuildInfo) gin.HandlerFunc {
	var buf bytes.Buffer
	if err := statusPage.Execute(&buf, info); err != nil {
		panic(err)
	}
	page := buf.Bytes()

	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}

func HandleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func RateLimitMiddleware(rps int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// newEngine registers the routes. The rate limit applies to the webhook only.
func newEngine(h *WebhookHandler, rps int, info BuildInfo) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", statusHandler(info))
	engine.GET("/healthz", HandleHealthz)
	engine.POST("/callback", RateLimitMiddleware(rps), h.HandleCallback)
	return engine
}

var statusPage = template.Must(template.New("status").Parse(`<!doctype html>
<html lang="zh-Hant">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>LINE Bot Server Status</title>
    <style>
        body {
            background-color: #0f1115;
            color: #e6e8ef;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            text-align: center;
        }
        .container { padding: 2rem; }
        h1 { font-size: 2.2rem; margin-bottom: 1rem; color: #ffffff; }
        .status-ok, .active { color: #22c55e; }
        .active { font-weight: bold; }
        p { font-size: 1.1rem; color: #9aa4b2; line-height: 1.6; max-width: 600px; }
        .build { font-size: 0.85rem; color: #5b6472; }
    </style>
</head>
<body>
    <div class="container">
        <h1><span class="status-ok">✓</span> LINE Bot Server is Running</h1>
        <p>This is the backend service for the Earthquake Alert Bot.</p>
        <p>The service is <span class="active">active</span> and listening for webhook events from LINE.</p>
        <p class="build">Version {{.Version}} ({{.GitCommit}}, built {{.BuildDate}}) &middot; {{.GoVersion}} {{.Platform}}</p>
    </div>
</body>
</html>
`))
