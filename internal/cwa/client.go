// Package cwa fetches earthquake reports from Taiwan's Central Weather
// Administration: the early-warning alarm list and the significant
// (felt) earthquake datastore E-A0015-001.
package cwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/dileep-u-k/quakebot/internal/httpc"
	"github.com/dileep-u-k/quakebot/internal/quake"
)

const (
	DefaultAlarmURL       = "https://app-2.cwa.gov.tw/api/v1/earthquake/alarm/list"
	DefaultSignificantURL = "https://opendata.cwa.gov.tw/api/v1/rest/datastore/E-A0015-001"

	DefaultAlarmTimeout       = 10 * time.Second
	DefaultSignificantTimeout = 15 * time.Second
)

// ErrNoAPIKey is returned before any I/O when the datastore key is not configured.
var ErrNoAPIKey = errors.New("cwa: CWA_API_KEY is not set")

type Config struct {
	APIKey             string
	AlarmURL           string
	SignificantURL     string
	AlarmTimeout       time.Duration
	SignificantTimeout time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	now    func() time.Time
	logger *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.AlarmURL == "" {
		cfg.AlarmURL = DefaultAlarmURL
	}
	if cfg.SignificantURL == "" {
		cfg.SignificantURL = DefaultSignificantURL
	}
	if cfg.AlarmTimeout <= 0 {
		cfg.AlarmTimeout = DefaultAlarmTimeout
	}
	if cfg.SignificantTimeout <= 0 {
		cfg.SignificantTimeout = DefaultSignificantTimeout
	}
	if httpClient == nil {
		httpClient = httpc.NewClient(httpc.DefaultTimeout)
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		now:    time.Now,
		logger: slog.Default().With("component", "cwa"),
	}
}

// HasAPIKey reports whether the significant-earthquake datastore can be queried.
func (c *Client) HasAPIKey() bool {
	return c.cfg.APIKey != ""
}

// AlarmList returns the current early-warning messages, newest first.
func (c *Client) AlarmList(ctx context.Context) ([]quake.Alarm, error) {
	body, err := httpc.GetBody(ctx, c.http, c.cfg.AlarmURL, nil, c.cfg.AlarmTimeout)
	if err != nil {
		return nil, fmt.Errorf("cwa alarm list: %w", err)
	}

	var payload quake.Object
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("cwa alarm list: error decoding body: %w", err)
	}

	alarms := parseAlarms(payload)
	slices.SortStableFunc(alarms, func(a, b quake.Alarm) int {
		return quake.ByTimeDesc(a.Record, b.Record)
	})
	c.logger.Debug("alarm list fetched", "count", len(alarms))
	return alarms, nil
}

// Significant returns significant earthquakes reported in the last days, newest first.
func (c *Client) Significant(ctx context.Context, days int) ([]quake.Record, error) {
	if !c.HasAPIKey() {
		return nil, ErrNoAPIKey
	}
	params := url.Values{}
	params.Set("Authorization", c.cfg.APIKey)
	params.Set("format", "JSON")
	params.Set("timeFrom", c.now().UTC().AddDate(0, 0, -days).Format("2006-01-02"))

	payload, err := c.getSignificant(ctx, params)
	if err != nil {
		return nil, err
	}

	records := parseSignificant(payload)
	slices.SortStableFunc(records, quake.ByTimeDesc)
	c.logger.Debug("significant list fetched", "days", days, "count", len(records))
	return records, nil
}

// LatestSignificant returns the most recent significant earthquake, or nil when there is none.
func (c *Client) LatestSignificant(ctx context.Context) (*quake.Record, error) {
	if !c.HasAPIKey() {
		return nil, ErrNoAPIKey
	}
	params := url.Values{}
	params.Set("Authorization", c.cfg.APIKey)
	params.Set("format", "JSON")
	params.Set("limit", strconv.Itoa(1))
	params.Set("orderby", "OriginTime desc")

	payload, err := c.getSignificant(ctx, params)
	if err != nil {
		return nil, err
	}

	records := parseSignificant(payload)
	if len(records) == 0 {
		return nil, nil
	}
	latest := records[0]
	return &latest, nil
}

func (c *Client) getSignificant(ctx context.Context, params url.Values) (quake.Object, error) {
	body, err := httpc.GetBody(ctx, c.http, c.cfg.SignificantURL, params, c.cfg.SignificantTimeout)
	if err != nil {
		return nil, fmt.Errorf("cwa significant: %w", err)
	}
	var payload quake.Object
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("cwa significant: error decoding body: %w", err)
	}
	return payload, nil
}
