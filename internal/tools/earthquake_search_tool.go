package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dileep-u-k/quakebot/internal/gradio"
	"github.com/dileep-u-k/quakebot/internal/quake"
)

const (
	// SearchAPIName is the Gradio endpoint that queries the earthquake catalog.
	SearchAPIName = "/gradio_fetch_and_plot_data"

	DefaultMinMagnitude = 4.5
	DefaultMaxMagnitude = 8.0

	// NoResultsText is returned to the model when the catalog has no matches.
	NoResultsText = "查詢完成，但未找到任何符合條件的地震資料。"
)

// Search area sent with every query: Taiwan and its surroundings, depth 0-100 km.
const (
	searchMinLat   = 21.0
	searchMaxLat   = 26.0
	searchMinLon   = 119.0
	searchMaxLon   = 123.0
	searchMinDepth = 0.0
	searchMaxDepth = 100.0
)

// Predictor runs a remote Gradio function.
type Predictor interface {
	Predict(ctx context.Context, apiName string, inputs ...any) ([]any, error)
}

// EarthquakeSearchTool proxies catalog searches to the remote earthquake app.
type EarthquakeSearchTool struct {
	remote Predictor
	logger *slog.Logger
}

var _ ToolExecutor = (*EarthquakeSearchTool)(nil)

func NewEarthquakeSearchTool(remote Predictor) *EarthquakeSearchTool {
	return &EarthquakeSearchTool{
		remote: remote,
		logger: slog.Default().With("tool", string(EarthquakeSearch)),
	}
}

func (t *EarthquakeSearchTool) Definition() Tool {
	return NewFunctionTool(
		EarthquakeSearch,
		"根據指定的條件（時間、地點、規模等）從台灣中央氣象署的資料庫中搜尋地震事件。預設搜尋台灣周邊地區。",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"start_date": {
					Type:        "string",
					Description: "搜尋的開始日期 (格式 'YYYY-MM-DD')。模型應根據使用者問題推斷此日期，例如從『去年』或『2024年』推斷出 '2024-01-01'。",
				},
				"end_date": {
					Type:        "string",
					Description: "搜尋的結束日期 (格式 'YYYY-MM-DD')。模型應根據使用者問題推斷此日期，例如從『昨天』或『2024年』推斷出 '2024-12-31'。",
				},
				"min_magnitude": {
					Type:        "number",
					Description: "要搜尋的最小地震規模。如果使用者未指定，請使用預設值 4.5。",
				},
				"max_magnitude": {
					Type:        "number",
					Description: "要搜尋的最大地震規模。預設為 8.0。",
				},
			},
			Required: []string{"start_date", "end_date"},
		},
	)
}

// SearchArgs are the decoded tool arguments.
type SearchArgs struct {
	StartDate    string
	EndDate      string
	MinMagnitude float64
	MaxMagnitude float64
}

// ParseSearchArgs reads the model's arguments. Dates are passed through as
// given; magnitudes may be numbers or numeric strings and default to 4.5/8.0.
func ParseSearchArgs(arguments string) (SearchArgs, error) {
	args := SearchArgs{
		MinMagnitude: DefaultMinMagnitude,
		MaxMagnitude: DefaultMaxMagnitude,
	}

	var raw quake.Object
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
			return args, fmt.Errorf("invalid arguments for %s: %w", EarthquakeSearch, err)
		}
	}

	args.StartDate = quake.LookupString(raw, []string{"start_date"})
	args.EndDate = quake.LookupString(raw, []string{"end_date"})
	if args.StartDate == "" || args.EndDate == "" {
		return args, errors.New("start_date and end_date are required")
	}

	if v, ok := quake.ParseFloat(raw["min_magnitude"]); ok {
		args.MinMagnitude = *v
	}
	if v, ok := quake.ParseFloat(raw["max_magnitude"]); ok {
		args.MaxMagnitude = *v
	}
	return args, nil
}

func (t *EarthquakeSearchTool) Execute(ctx context.Context, arguments string) (string, error) {
	args, err := ParseSearchArgs(arguments)
	if err != nil {
		return "", err
	}

	t.logger.Info("calling remote earthquake search",
		"start_date", args.StartDate,
		"end_date", args.EndDate,
		"min_magnitude", args.MinMagnitude,
		"max_magnitude", args.MaxMagnitude,
	)

	out, err := t.remote.Predict(ctx, SearchAPIName,
		args.StartDate, "00:00:00",
		args.EndDate, "23:59:59",
		searchMinLat, searchMaxLat,
		searchMinLon, searchMaxLon,
		searchMinDepth, searchMaxDepth,
		args.MinMagnitude, args.MaxMagnitude,
	)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", gradio.ErrNoResult
	}

	table, err := gradio.ParseTable(out[0])
	if err != nil {
		return "", err
	}
	if len(table.Rows) == 0 {
		t.logger.Info("remote earthquake search returned no rows")
		return NoResultsText, nil
	}

	t.logger.Info("remote earthquake search succeeded", "rows", len(table.Rows))
	return gradio.EncodeRecords(table.Records())
}
