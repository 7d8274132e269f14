// Package usgs queries the USGS FDSN event web service.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dileep-u-k/quakebot/internal/httpc"
	"github.com/dileep-u-k/quakebot/internal/quake"
)

const (
	DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

	DefaultGlobalTimeout = 15 * time.Second
	DefaultTaiwanTimeout = 20 * time.Second

	isoLayout = "2006-01-02T15:04:05"
)

// TaiwanBox is the bounding box used for the Taiwan-area list.
var TaiwanBox = quake.BoundingBox{MinLatitude: 21, MaxLatitude: 26, MinLongitude: 119, MaxLongitude: 123}

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   *usgsGeometry  `json:"geometry"`
}

type usgsProperties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  *int64   `json:"time"` // unix millis
	URL   string   `json:"url"`
}

type usgsGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

// Query is one FDSN search.
type Query struct {
	Start        time.Time
	End          time.Time
	MinMagnitude float64
	Box          *quake.BoundingBox
	Limit        int
}

type Config struct {
	BaseURL       string
	GlobalTimeout time.Duration
	TaiwanTimeout time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	now    func() time.Time
	logger *slog.Logger
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GlobalTimeout <= 0 {
		cfg.GlobalTimeout = DefaultGlobalTimeout
	}
	if cfg.TaiwanTimeout <= 0 {
		cfg.TaiwanTimeout = DefaultTaiwanTimeout
	}
	if httpClient == nil {
		httpClient = httpc.NewClient(max(cfg.GlobalTimeout, cfg.TaiwanTimeout))
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		now:    time.Now,
		logger: slog.Default().With("component", "usgs"),
	}
}

// Now is the clock used for the relative windows; exposed so callers label replies consistently.
func (c *Client) Now() time.Time {
	return c.now()
}

// GlobalRecent returns worldwide events of at least minMag over the last 24 hours.
func (c *Client) GlobalRecent(ctx context.Context, minMag float64, limit int) ([]quake.Record, error) {
	now := c.now().UTC()
	return c.Search(ctx, Query{
		Start:        now.Add(-24 * time.Hour),
		End:          now,
		MinMagnitude: minMag,
		Limit:        limit,
	}, c.cfg.GlobalTimeout)
}

// TaiwanThisYear returns Taiwan-area events of at least minMag since January 1 (UTC).
func (c *Client) TaiwanThisYear(ctx context.Context, minMag float64) ([]quake.Record, error) {
	now := c.now().UTC()
	return c.Search(ctx, Query{
		Start:        time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
		End:          now,
		MinMagnitude: minMag,
		Box:          &TaiwanBox,
		Limit:        250,
	}, c.cfg.TaiwanTimeout)
}

// Search runs one FDSN query ordered by time, newest first.
func (c *Client) Search(ctx context.Context, q Query, timeout time.Duration) ([]quake.Record, error) {
	params := url.Values{}
	params.Set("format", "geojson")
	params.Set("starttime", q.Start.UTC().Format(isoLayout))
	params.Set("endtime", q.End.UTC().Format(isoLayout))
	params.Set("minmagnitude", strconv.FormatFloat(q.MinMagnitude, 'f', -1, 64))
	params.Set("orderby", "time")
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Box != nil {
		params.Set("minlatitude", strconv.FormatFloat(q.Box.MinLatitude, 'f', -1, 64))
		params.Set("maxlatitude", strconv.FormatFloat(q.Box.MaxLatitude, 'f', -1, 64))
		params.Set("minlongitude", strconv.FormatFloat(q.Box.MinLongitude, 'f', -1, 64))
		params.Set("maxlongitude", strconv.FormatFloat(q.Box.MaxLongitude, 'f', -1, 64))
	}

	body, err := httpc.GetBody(ctx, c.http, c.cfg.BaseURL, params, timeout)
	if err != nil {
		return nil, fmt.Errorf("usgs query: %w", err)
	}

	var data usgsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("usgs query: error decoding body: %w", err)
	}

	records := make([]quake.Record, 0, len(data.Features))
	for _, f := range data.Features {
		records = append(records, toRecord(f))
	}
	c.logger.Debug("usgs query complete", "count", len(records), "min_magnitude", q.MinMagnitude)
	return records, nil
}

func toRecord(f usgsFeature) quake.Record {
	r := quake.Record{
		ID:        f.ID,
		Location:  f.Properties.Place,
		ReportURL: f.Properties.URL,
	}
	if f.Properties.Mag != nil {
		r.Magnitude, _ = quake.ParseFloat(*f.Properties.Mag)
	}
	if f.Properties.Time != nil {
		r.OriginTime = time.UnixMilli(*f.Properties.Time).UTC()
	}
	if f.Geometry != nil {
		coords := f.Geometry.Coordinates
		if len(coords) >= 2 {
			r.Longitude = coords[0]
			r.Latitude = coords[1]
		}
		if len(coords) >= 3 {
			r.Depth, _ = quake.ParseFloat(coords[2])
		}
	}
	return r
}
