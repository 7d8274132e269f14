// Package gradio calls a function hosted on a Gradio app through its
// two-step HTTP API: POST the positional inputs to obtain an event id, then
// read the event stream until the "complete" event carries the outputs.
package gradio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dileep-u-k/quakebot/internal/httpc"
)

const (
	DefaultPrefix  = "/gradio_api"
	DefaultTimeout = 20 * time.Second
)

var (
	// ErrNoResult is returned when the stream ends without a "complete" event.
	ErrNoResult = errors.New("gradio: stream ended without a result")
	// ErrRemote is returned when the app reports an "error" event.
	ErrRemote = errors.New("gradio: remote function failed")
)

type Config struct {
	BaseURL string
	// Prefix is "/gradio_api" for Gradio 5 apps and "" for Gradio 4.
	Prefix  string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.Prefix == "/" {
		cfg.Prefix = ""
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = httpc.NewClient(cfg.Timeout)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: slog.Default().With("component", "gradio"),
	}
}

// Predict calls apiName (e.g. "/gradio_fetch_and_plot_data") with positional inputs
// and returns the output list.
func (c *Client) Predict(ctx context.Context, apiName string, inputs ...any) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + c.cfg.Prefix + "/call/" + strings.TrimLeft(apiName, "/")

	eventID, err := c.submit(ctx, endpoint, inputs)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("gradio call submitted", "api", apiName, "event_id", eventID)

	return c.await(ctx, endpoint+"/"+eventID)
}

func (c *Client) submit(ctx context.Context, endpoint string, inputs []any) (string, error) {
	if inputs == nil {
		inputs = []any{}
	}
	payload, err := json.Marshal(map[string]any{"data": inputs})
	if err != nil {
		return "", fmt.Errorf("gradio: failed to marshal inputs: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gradio: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gradio: submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gradio: submit returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var accepted struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return "", fmt.Errorf("gradio: failed to decode submit response: %w", err)
	}
	if accepted.EventID == "" {
		return "", errors.New("gradio: submit response has no event_id")
	}
	return accepted.EventID, nil
}

func (c *Client) await(ctx context.Context, resultURL string) ([]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gradio: failed to create result request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gradio: result stream failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gradio: result stream returned %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 8<<20)

	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "complete":
				var outputs []any
				if err := json.Unmarshal([]byte(data), &outputs); err != nil {
					return nil, fmt.Errorf("gradio: failed to decode outputs: %w", err)
				}
				return outputs, nil
			case "error":
				return nil, fmt.Errorf("%w: %s", ErrRemote, data)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gradio: reading result stream: %w", err)
	}
	return nil, ErrNoResult
}
