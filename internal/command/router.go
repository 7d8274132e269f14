package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dileep-u-k/quakebot/internal/cwa"
	"github.com/dileep-u-k/quakebot/internal/quake"
	"github.com/dileep-u-k/quakebot/internal/reply"
)

const (
	globalMinMagnitude = 5.0
	globalLimit        = 10
	taiwanMinMagnitude = 5.0
	taiwanCap          = 15
	alarmCap           = 5
	significantDays    = 7
	significantCap     = 5
)

// CWASource is the subset of the CWA client the router uses.
type CWASource interface {
	HasAPIKey() bool
	AlarmList(ctx context.Context) ([]quake.Alarm, error)
	Significant(ctx context.Context, days int) ([]quake.Record, error)
	LatestSignificant(ctx context.Context) (*quake.Record, error)
}

// USGSSource is the subset of the USGS client the router uses.
type USGSSource interface {
	Now() time.Time
	GlobalRecent(ctx context.Context, minMag float64, limit int) ([]quake.Record, error)
	TaiwanThisYear(ctx context.Context, minMag float64) ([]quake.Record, error)
}

// Assistant answers free-form questions. It reports its own failures as text.
type Assistant interface {
	Generate(ctx context.Context, prompt string) string
}

// Request is one incoming chat message. BaseURL is the public address the
// webhook was reached on.
type Request struct {
	RawText   string
	BaseURL   string
	RequestID string
}

type Router struct {
	cwa    CWASource
	usgs   USGSSource
	ai     Assistant
	mapURL string
	logger *slog.Logger
}

// NewRouter wires the providers. mapURL is the earthquake search app linked by the map command.
func NewRouter(cwaSource CWASource, usgsSource USGSSource, ai Assistant, mapURL string) *Router {
	return &Router{
		cwa:    cwaSource,
		usgs:   usgsSource,
		ai:     ai,
		mapURL: mapURL,
		logger: slog.Default().With("component", "router"),
	}
}

// Handle returns the reply for one chat message. The result is never empty.
func (r *Router) Handle(ctx context.Context, req Request) []reply.Message {
	cmd, arg, ok := Parse(req.RawText)
	logger := r.logger.With("request_id", req.RequestID, "base_url", req.BaseURL)
	if !ok {
		logger.Info("forwarding message to assistant")
		return r.askAI(ctx, req.RawText)
	}
	logger.Info("handling command", "command", string(cmd))

	switch cmd {
	case Help:
		return texts(helpText)
	case Info:
		return texts(infoText)
	case Latest:
		return r.latest(ctx)
	case Global:
		return texts(r.global(ctx))
	case Taiwan:
		return texts(r.taiwan(ctx))
	case Map:
		return texts(fmt.Sprintf(mapTextFormat, r.mapURL))
	case Alert:
		return texts(r.alerts(ctx))
	case Significant:
		return texts(r.significant(ctx))
	case AI:
		if arg == "" {
			return texts(emptyPromptText)
		}
		return r.askAI(ctx, arg)
	}
	return r.askAI(ctx, req.RawText)
}

func texts(s string) []reply.Message {
	return []reply.Message{reply.Text(s)}
}

func (r *Router) askAI(ctx context.Context, prompt string) []reply.Message {
	return texts(r.ai.Generate(ctx, prompt))
}

func (r *Router) latest(ctx context.Context) []reply.Message {
	rec, err := r.cwa.LatestSignificant(ctx)
	if errors.Is(err, cwa.ErrNoAPIKey) {
		return texts(latestNoKeyText)
	}
	if err != nil {
		r.logger.Warn("latest significant earthquake failed", "error", err)
		return texts(fmt.Sprintf("❌ 查詢最新地震失敗：%v", err))
	}
	if rec == nil {
		return texts(noLatestText)
	}

	msgs := texts(reply.LatestText(*rec))
	if rec.ImageURL != "" {
		msgs = append(msgs, reply.Image(rec.ImageURL, rec.ImageURL))
	}
	return msgs
}

func (r *Router) global(ctx context.Context) string {
	records, err := r.usgs.GlobalRecent(ctx, globalMinMagnitude, globalLimit)
	if err != nil {
		r.logger.Warn("global earthquake query failed", "error", err)
		return fmt.Sprintf("❌ 查詢失敗：%v", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("✅ 過去 24 小時內，全球無規模 %.1f 以上的顯著地震。", globalMinMagnitude)
	}
	header := fmt.Sprintf("🚨 近 24 小時全球顯著地震 (M≥%.1f):", globalMinMagnitude)
	return reply.List(header, len(records), globalLimit, blocks(records, reply.USGSBlock))
}

func (r *Router) taiwan(ctx context.Context) string {
	year := r.usgs.Now().UTC().Year()
	records, err := r.usgs.TaiwanThisYear(ctx, taiwanMinMagnitude)
	if err != nil {
		r.logger.Warn("taiwan earthquake query failed", "error", err)
		return fmt.Sprintf("❌ 查詢失敗：%v", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("✅ 今年 (%d 年) 以來，台灣區域無 M≥%.1f 的顯著地震。", year, taiwanMinMagnitude)
	}
	header := fmt.Sprintf("🇹🇼 今年 (%d 年) 台灣區域顯著地震 (M≥%.1f)，共 %d 筆:", year, taiwanMinMagnitude, len(records))
	return reply.List(header, len(records), taiwanCap, blocks(records, reply.USGSBlock))
}

func (r *Router) alerts(ctx context.Context) string {
	alarms, err := r.cwa.AlarmList(ctx)
	if err != nil {
		r.logger.Warn("alarm list failed", "error", err)
		return fmt.Sprintf("❌ 地震預警查詢失敗：%v", err)
	}
	if len(alarms) == 0 {
		return noAlarmText
	}
	return reply.List("🚨 地震預警（最新）:", len(alarms), alarmCap, blocks(alarms, reply.AlarmBlock))
}

func (r *Router) significant(ctx context.Context) string {
	if !r.cwa.HasAPIKey() {
		return significantNoKeyText
	}
	records, err := r.cwa.Significant(ctx, significantDays)
	if err != nil {
		r.logger.Warn("significant earthquake query failed", "error", err)
		return fmt.Sprintf("❌ 顯著地震查詢失敗：%v", err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("✅ 過去 %d 天內沒有顯著有感地震報告。", significantDays)
	}
	header := fmt.Sprintf("🚨 CWA 最新顯著有感地震 (近%d天内):", significantDays)
	return reply.List(header, len(records), significantCap, blocks(records, reply.SignificantBlock))
}

// blocks renders every item; reply.List drops the ones past its cap.
func blocks[T any](items []T, render func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, render(it))
	}
	return out
}
