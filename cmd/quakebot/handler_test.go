package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dileep-u-k/quakebot/internal/command"
	"github.com/dileep-u-k/quakebot/internal/dedup"
	"github.com/dileep-u-k/quakebot/internal/reply"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testSecret = "test-channel-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type fakeRouter struct {
	mu       sync.Mutex
	requests []command.Request
}

func (f *fakeRouter) Handle(_ context.Context, req command.Request) []reply.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return []reply.Message{reply.Text("echo: " + req.RawText)}
}

type sentReply struct {
	token string
	msgs  []reply.Message
}

type fakeReplier struct {
	mu   sync.Mutex
	sent []sentReply
	err  error
}

func (f *fakeReplier) Reply(_ context.Context, token string, msgs []reply.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReply{token, msgs})
	return f.err
}

func textEvent(eventID, replyToken, text string) string {
	return fmt.Sprintf(`{
		"type": "message",
		"mode": "active",
		"timestamp": 1712190000000,
		"source": {"type": "user", "userId": "U0000000000"},
		"webhookEventId": %q,
		"deliveryContext": {"isRedelivery": false},
		"replyToken": %q,
		"message": {"type": "text", "id": "100001", "quoteToken": "q", "text": %q}
	}`, eventID, replyToken, text)
}

func callbackBody(events ...string) string {
	return `{"destination": "Uxxxxxxxx", "events": [` + strings.Join(events, ",") + `]}`
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postCallback(engine *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func newTestEngine(t *testing.T, rps int) (*gin.Engine, *fakeRouter, *fakeReplier) {
	t.Helper()
	store := dedup.NewMemoryStore(time.Minute)
	t.Cleanup(func() { store.Close() })

	router := &fakeRouter{}
	replier := &fakeReplier{}
	h := NewWebhookHandler(testSecret, router, replier, store)
	return newEngine(h, rps, testBuildInfo), router, replier
}

var testBuildInfo = BuildInfo{
	Version:   "1.4.2",
	BuildDate: "2024-04-03T08:00:00Z",
	GitCommit: "0123456789ab",
	GoVersion: "go1.24.5",
	Platform:  "linux/amd64",
}

func TestCallbackRepliesToTextMessages(t *testing.T) {
	engine, router, replier := newTestEngine(t, 100)

	body := callbackBody(textEvent("01HEVENT1", "reply-token-1", "1"))
	w := postCallback(engine, body, sign(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	require.Len(t, router.requests, 1)
	assert.Equal(t, "1", router.requests[0].RawText)
	assert.Equal(t, "http://example.com", router.requests[0].BaseURL)
	assert.NotEmpty(t, router.requests[0].RequestID)
	require.Len(t, replier.sent, 1)
	assert.Equal(t, "reply-token-1", replier.sent[0].token)
	assert.Equal(t, []reply.Message{reply.Text("echo: 1")}, replier.sent[0].msgs)
}

func TestCallbackSkipsRedeliveredEvents(t *testing.T) {
	engine, router, replier := newTestEngine(t, 100)

	body := callbackBody(textEvent("01HEVENT2", "reply-token-2", "9"))
	for i := 0; i < 2; i++ {
		w := postCallback(engine, body, sign(body))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, router.requests, 1)
	assert.Len(t, replier.sent, 1)
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	engine, router, _ := newTestEngine(t, 100)

	body := callbackBody(textEvent("01HEVENT3", "reply-token-3", "1"))
	w := postCallback(engine, body, "bm90LWEtc2lnbmF0dXJl")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, router.requests)
}

func TestCallbackIgnoresNonTextEvents(t *testing.T) {
	engine, router, replier := newTestEngine(t, 100)

	follow := `{"type": "follow", "mode": "active", "timestamp": 1712190000000,
		"source": {"type": "user", "userId": "U0000000000"},
		"webhookEventId": "01HFOLLOW", "deliveryContext": {"isRedelivery": false},
		"replyToken": "reply-token-4", "follow": {"isUnblocked": false}}`
	body := callbackBody(follow)
	w := postCallback(engine, body, sign(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, router.requests)
	assert.Empty(t, replier.sent)
}

func TestCallbackReplyFailureStillAcknowledges(t *testing.T) {
	engine, _, replier := newTestEngine(t, 100)
	replier.err = errors.New("invalid reply token")

	body := callbackBody(textEvent("01HEVENT5", "expired", "2"))
	w := postCallback(engine, body, sign(body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, replier.sent, 1)
}

func TestCallbackRedeliveryAfterFailedReplyIsAnswered(t *testing.T) {
	engine, router, replier := newTestEngine(t, 100)
	replier.err = errors.New("line api unavailable")

	body := callbackBody(textEvent("01HEVENT6", "reply-token-6", "5"))
	w := postCallback(engine, body, sign(body))
	require.Equal(t, http.StatusOK, w.Code)

	replier.err = nil
	w = postCallback(engine, body, sign(body))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Len(t, router.requests, 2)
	require.Len(t, replier.sent, 2)
	assert.Equal(t, []reply.Message{reply.Text("echo: 5")}, replier.sent[1].msgs)

	w = postCallback(engine, body, sign(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, router.requests, 2)
}

func TestRequestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "https://bot.example.com/callback", nil)
	assert.Equal(t, "https://bot.example.com", requestBaseURL(req))

	req = httptest.NewRequest(http.MethodPost, "/callback", nil)
	req.Host = "quakebot.internal:8080"
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://quakebot.internal:8080", requestBaseURL(req))
}

func TestCallbackRateLimited(t *testing.T) {
	engine, _, _ := newTestEngine(t, 1)

	body := callbackBody()
	first := postCallback(engine, body, sign(body))
	second := postCallback(engine, body, sign(body))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestStatusAndHealth(t *testing.T) {
	engine, _, _ := newTestEngine(t, 1)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "LINE Bot Server is Running")
	assert.Contains(t, w.Body.String(), "Version 1.4.2 (0123456789ab, built 2024-04-03T08:00:00Z)")
	assert.Contains(t, w.Body.String(), "go1.24.5 linux/amd64")
}

func TestToLineMessages(t *testing.T) {
	msgs := []reply.Message{
		reply.Text(strings.Repeat("地", reply.MaxTextRunes+1)),
		reply.Image("https://example.com/a.png", "https://example.com/a.png"),
	}
	for i := 0; i < 5; i++ {
		msgs = append(msgs, reply.Text(fmt.Sprintf("extra %d", i)))
	}

	out := toLineMessages(msgs)
	require.Len(t, out, maxReplyMessages)

	text, ok := out[0].(messaging_api.TextMessage)
	require.True(t, ok)
	assert.Equal(t, reply.MaxTextRunes, len([]rune(text.Text)))

	img, ok := out[1].(messaging_api.ImageMessage)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a.png", img.OriginalContentUrl)
	assert.Equal(t, "https://example.com/a.png", img.PreviewImageUrl)
}
